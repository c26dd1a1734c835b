package nfsfs

import (
	"errors"

	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// Status is the subset of nfsstat3 codes this adapter ever returns
// (spec §6/§7). Handler and FS do not call MapError: FS returns adapter
// errors to willscott/go-nfs as they are, or wrapped in *os.PathError.
type Status int

const (
	StatusOK Status = iota
	StatusNoEnt
	StatusIO
	StatusNotSupp
	StatusROFS
)

// MapError translates a backend/adapter error into the NFS status reported
// to the client, per spec §7: not-found maps to NOENT, unsupported
// operations map to NOTSUPP (or ROFS if the accessor is read-only and the
// operation was a mutation), and everything else maps to IO. Unknown
// errors are expected to already have been logged by the caller.
func MapError(err error, readOnly bool) Status {
	if err == nil {
		return StatusOK
	}
	switch {
	case errors.Is(err, ovlerrors.ErrNotExist):
		return StatusNoEnt
	case errors.Is(err, ovlerrors.ErrNotSupported):
		if readOnly {
			return StatusROFS
		}
		return StatusNotSupp
	default:
		return StatusIO
	}
}
