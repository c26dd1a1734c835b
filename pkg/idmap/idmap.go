// Package idmap implements the path↔id translator of spec §4.5: a
// bidirectional map between 64-bit NFS file ids and path strings, guarded
// by a single read-mostly RWMutex.
package idmap

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// RootID is reserved for the root directory (spec §3).
const RootID uint64 = 1

// RootPath is the path bound to RootID.
const RootPath = "/"

// Map is a bijection from 64-bit file id to path. Insertion only grows the
// map; entries are never removed while the process runs.
type Map struct {
	mu       sync.RWMutex
	idToPath map[uint64]string
	pathToID map[string]uint64
}

// New returns a Map seeded with RootID ↔ RootPath.
func New() *Map {
	m := &Map{
		idToPath: map[uint64]string{RootID: RootPath},
		pathToID: map[string]uint64{RootPath: RootID},
	}
	return m
}

// hash64 computes a stable, non-cryptographic 64-bit hash of path. RootID
// is never produced by this hash in practice (FNV-1a of "/" is not 1), but
// IDFor still special-cases RootPath explicitly for clarity.
func hash64(path string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return h.Sum64()
}

// PathFor is a read-only lookup; the bool is false if id is unknown.
func (m *Map) PathFor(id uint64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.idToPath[id]
	return p, ok
}

// IDFor looks up path's id. If absent and insert is true, it allocates a
// new id via hash64 and inserts it; a hash collision against a distinct
// path is a fatal bug in this process, per spec §4.5, and is reported via
// ovlerrors.ErrIDCollision rather than silently remapped.
func (m *Map) IDFor(path string, insert bool) (uint64, error) {
	if path == RootPath {
		return RootID, nil
	}

	m.mu.RLock()
	id, ok := m.pathToID[path]
	m.mu.RUnlock()
	if ok {
		return id, nil
	}
	if !insert {
		return 0, ovlerrors.ErrNotExist
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock: another writer may have inserted path
	// while we waited.
	if id, ok := m.pathToID[path]; ok {
		return id, nil
	}

	candidate := hash64(path)
	if existing, collides := m.idToPath[candidate]; collides && existing != path {
		return 0, fmt.Errorf("%w: id %d already bound to %q, cannot bind %q",
			ovlerrors.ErrIDCollision, candidate, existing, path)
	}

	m.idToPath[candidate] = path
	m.pathToID[path] = candidate
	return candidate, nil
}

// Len returns the number of bound ids, including the root.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.idToPath)
}
