package nfsfs

import (
	"context"
	"encoding/binary"
	"net"

	billy "github.com/go-git/go-billy/v5"
	nfs "github.com/willscott/go-nfs"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/idmap"
)

// Handler implements willscott/go-nfs's Handler interface over a single
// FS. File handles are opaque 8-byte big-endian encodings of the path↔id
// translator's file id (spec §4.5): ToHandle never allocates (the id must
// already exist, since go-nfs only asks for a handle after a successful
// Stat/Lookup), and FromHandle resolves the id back to a path via the
// translator.
type Handler struct {
	fs       *FS
	ids      *idmap.Map
	readOnly bool
}

// NewHandler builds a go-nfs Handler backed by fs.
func NewHandler(fs *FS, ids *idmap.Map, readOnly bool) *Handler {
	return &Handler{fs: fs, ids: ids, readOnly: readOnly}
}

func (h *Handler) Mount(ctx context.Context, conn net.Conn, req nfs.MountRequest) (nfs.MountStatus, billy.Filesystem, []nfs.AuthFlavor) {
	logger.InfoCtx(ctx, "nfs mount request", logger.Path(string(req.Dirpath)))
	return nfs.MountStatusOk, h.fs, []nfs.AuthFlavor{nfs.AuthFlavorNull}
}

func (h *Handler) Change(fs billy.Filesystem) billy.Change {
	// The overlay model never mutates permissions (spec §4.6 setattr is a
	// no-op), so there is no billy.Change implementation to offer.
	return nil
}

func (h *Handler) FSStat(ctx context.Context, f billy.Filesystem, stat *nfs.FSStat) error {
	stat.TotalSize = 0
	stat.FreeSize = 0
	stat.AvailableSize = 0
	stat.TotalFiles = 0
	stat.FreeFiles = 0
	stat.AvailableFiles = 0
	return nil
}

// ToHandle encodes path's file id as an 8-byte opaque handle. path must
// already have a bound id (from a prior Lookup/ReadDir); ToHandle does not
// allocate one.
func (h *Handler) ToHandle(fs billy.Filesystem, path []string) []byte {
	p := "/"
	if len(path) > 0 {
		p = "/" + join(path)
	}
	id, err := h.ids.IDFor(p, false)
	if err != nil {
		return nil
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

// FromHandle decodes an opaque handle back into (fs, path).
func (h *Handler) FromHandle(fh []byte) (billy.Filesystem, []string, error) {
	if len(fh) != 8 {
		return nil, nil, errInvalidHandle
	}
	id := binary.BigEndian.Uint64(fh)
	p, ok := h.ids.PathFor(id)
	if !ok {
		return nil, nil, errInvalidHandle
	}
	return h.fs, splitPath(p), nil
}

// HandleLimit is unbounded: ids are allocated on demand and never recycled
// (spec §4.5: "insertion only grows the map").
func (h *Handler) HandleLimit() int { return -1 }

func (h *Handler) InvalidateHandle(billy.Filesystem, []byte) error { return nil }

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

func splitPath(p string) []string {
	if p == "/" || p == "" {
		return nil
	}
	var out []string
	start := 1
	for i := 1; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			if i > start {
				out = append(out, p[start:i])
			}
			start = i + 1
		}
	}
	return out
}

var errInvalidHandle = &handleError{"invalid or unknown file handle"}

type handleError struct{ msg string }

func (e *handleError) Error() string { return e.msg }
