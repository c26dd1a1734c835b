// Package overlay implements the policy-driven composition layer (spec
// §4.2–§4.4): tagged stream variants, the Policy contract and its built-in
// implementations, and the OverlayAccessor that composes (base, overlay,
// policy) into a single accessor.Backend.
package overlay

import (
	"strings"

	"github.com/ovlmount/ovlmount/pkg/accessor"
)

// Source identifies which of the two composed backends owns an operation.
type Source int

const (
	Base Source = iota
	Overlay
)

func (s Source) String() string {
	if s == Base {
		return "base"
	}
	return "overlay"
}

// Operation identifies the kind of single-backend call Policy.Owner is
// deciding for.
type Operation int

const (
	OpStat Operation = iota
	OpRead
	OpWrite
	OpAppend
	OpCreateDir
)

// Policy is the pure decision object described in spec §4.3. Implementations
// must be deterministic, side-effect free, and safe for concurrent use.
type Policy interface {
	// Name identifies the policy for logging (KeyPolicy).
	Name() string

	// Owner selects the backend for a single-backend operation.
	Owner(path string, op Operation, baseInfo, overlayInfo accessor.Info) Source

	// Capability returns the capability bitmask the overlay accessor
	// advertises given both backends' Info.
	Capability(baseInfo, overlayInfo accessor.Info) accessor.Capability

	// Merge combines one page from each backend into the page returned to
	// the NFS readdir caller. Either slice may be nil.
	Merge(basePage, overlayPage []accessor.Entry) []accessor.Entry
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// dedupeByName merges two already-ordered entry slices, preferring the
// first slice's entry whenever both contain the same name.
func dedupeByName(preferred, fallback []accessor.Entry) []accessor.Entry {
	if len(preferred) == 0 {
		return fallback
	}
	if len(fallback) == 0 {
		return preferred
	}
	seen := make(map[string]bool, len(preferred))
	out := make([]accessor.Entry, 0, len(preferred)+len(fallback))
	for _, e := range preferred {
		seen[e.Name] = true
		out = append(out, e)
	}
	for _, e := range fallback {
		if !seen[e.Name] {
			out = append(out, e)
		}
	}
	return out
}
