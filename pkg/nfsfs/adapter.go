// Package nfsfs implements the NFSv3 filesystem adapter of spec §4.6 (the
// Adapter type, operating on 64-bit file ids) and wraps it in the
// willscott/go-nfs Handler and go-git/go-billy Filesystem contracts so it
// can be served by a real NFSv3 wire-protocol library (spec §1: the codec
// itself is an external collaborator).
package nfsfs

import (
	"context"
	"path"
	"strings"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/idmap"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// DirEntry is one entry returned by Adapter.ReadDir.
type DirEntry struct {
	Name string
	ID   uint64
	Attr Attr
}

// Adapter implements the NFSv3 filesystem contract of spec §4.6 on top of
// one storage accessor (almost always an *overlay.Accessor) and a path↔id
// translator. None of its operations hold the translator's lock across a
// backend call.
type Adapter struct {
	backend accessor.Backend
	ids     *idmap.Map
	uid     uint32
	gid     uint32
}

// New constructs an Adapter. uid/gid are the static values reported in
// every fattr (spec §3: "static uid/gid in attributes").
func New(backend accessor.Backend, ids *idmap.Map, uid, gid uint32) *Adapter {
	return &Adapter{backend: backend, ids: ids, uid: uid, gid: gid}
}

// RootDir always returns 1 (spec §4.6).
func (a *Adapter) RootDir() uint64 { return idmap.RootID }

// Capabilities reports ReadWrite iff the underlying accessor supports
// writes.
func (a *Adapter) Capabilities() Capabilities {
	if a.backend.Info().Capabilities.Has(accessor.CapWrite) {
		return ReadWrite
	}
	return ReadOnly
}

func childPath(parentPath, name string) string {
	return path.Join(parentPath, name)
}

// Lookup resolves parent_id + name to a file id. It never allocates a new
// id for a path that hasn't already been observed via readdir or create;
// an unobserved path is reported as not-found.
func (a *Adapter) Lookup(ctx context.Context, parentID uint64, name string) (uint64, error) {
	parentPath, ok := a.ids.PathFor(parentID)
	if !ok {
		return 0, ovlerrors.ErrNotExist
	}
	id, err := a.ids.IDFor(childPath(parentPath, name), false)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetAttr resolves id to a path, stats it through the backend, and builds
// an Attr.
func (a *Adapter) GetAttr(ctx context.Context, id uint64) (Attr, error) {
	p, ok := a.ids.PathFor(id)
	if !ok {
		return Attr{}, ovlerrors.ErrNotExist
	}
	meta, err := a.backend.Stat(ctx, p)
	if err != nil {
		return Attr{}, err
	}
	return attrFor(meta.IsDir, meta.Size, meta.LastModified, a.uid, a.gid, id), nil
}

// SetAttr is a no-op returning current attributes: the object stores this
// adapter wraps do not support permission/ownership mutation (spec §4.6,
// §9 open question).
func (a *Adapter) SetAttr(ctx context.Context, id uint64) (Attr, error) {
	return a.GetAttr(ctx, id)
}

// Read calls the backend's ranged read; eof is true iff fewer bytes were
// returned than requested.
func (a *Adapter) Read(ctx context.Context, id uint64, offset uint64, count uint32) ([]byte, bool, error) {
	p, ok := a.ids.PathFor(id)
	if !ok {
		return nil, false, ovlerrors.ErrNotExist
	}
	_, r, err := a.backend.Read(ctx, p, accessor.Range{Offset: offset, Count: uint64(count)})
	if err != nil {
		return nil, false, err
	}
	defer r.Close()

	buf := make([]byte, count)
	n := 0
	for n < len(buf) {
		m, rerr := r.Read(buf[n:])
		n += m
		if rerr != nil {
			break
		}
	}
	data := buf[:n]
	eof := uint64(n) < uint64(count)
	return data, eof, nil
}

// Write overwrites at offset 0 and appends otherwise (spec §9's fixed
// resolution of the source's inconsistent offset>0 handling), returning
// the post-write attributes.
func (a *Adapter) Write(ctx context.Context, id uint64, offset uint64, data []byte) (Attr, error) {
	p, ok := a.ids.PathFor(id)
	if !ok {
		return Attr{}, ovlerrors.ErrNotExist
	}

	if offset == 0 {
		w, err := a.backend.Write(ctx, p, accessor.WriteOptions{})
		if err != nil {
			return Attr{}, err
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Abort()
			return Attr{}, err
		}
		if err := w.Close(); err != nil {
			return Attr{}, err
		}
	} else {
		ap, err := a.backend.Append(ctx, p, accessor.AppendOptions{})
		if err != nil {
			return Attr{}, err
		}
		if _, err := ap.Write(data); err != nil {
			return Attr{}, err
		}
		if err := ap.Close(); err != nil {
			return Attr{}, err
		}
	}

	return a.GetAttr(ctx, id)
}

// Create allocates the child's id, issues a zero-length write, and returns
// its attributes.
func (a *Adapter) Create(ctx context.Context, dirID uint64, name string) (uint64, Attr, error) {
	dirPath, ok := a.ids.PathFor(dirID)
	if !ok {
		return 0, Attr{}, ovlerrors.ErrNotExist
	}
	p := childPath(dirPath, name)
	id, err := a.ids.IDFor(p, true)
	if err != nil {
		return 0, Attr{}, err
	}
	w, err := a.backend.Write(ctx, p, accessor.WriteOptions{})
	if err != nil {
		return 0, Attr{}, err
	}
	if err := w.Close(); err != nil {
		return 0, Attr{}, err
	}
	attr, err := a.GetAttr(ctx, id)
	return id, attr, err
}

// CreateExclusive writes a single sentinel byte to guarantee existence.
// This is not strictly exclusive: an existence pre-check would itself be
// racy against concurrent NFS clients, so NFS exclusive-create semantics
// are best-effort here (spec §4.6, §9 open question).
func (a *Adapter) CreateExclusive(ctx context.Context, dirID uint64, name string) (uint64, error) {
	dirPath, ok := a.ids.PathFor(dirID)
	if !ok {
		return 0, ovlerrors.ErrNotExist
	}
	p := childPath(dirPath, name)
	id, err := a.ids.IDFor(p, true)
	if err != nil {
		return 0, err
	}
	w, err := a.backend.Write(ctx, p, accessor.WriteOptions{})
	if err != nil {
		return 0, err
	}
	if _, err := w.Write([]byte{0}); err != nil {
		_ = w.Abort()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return id, nil
}

// Mkdir allocates the child directory's id and calls CreateDir.
func (a *Adapter) Mkdir(ctx context.Context, dirID uint64, name string) (uint64, Attr, error) {
	dirPath, ok := a.ids.PathFor(dirID)
	if !ok {
		return 0, Attr{}, ovlerrors.ErrNotExist
	}
	p := childPath(dirPath, name)
	id, err := a.ids.IDFor(p, true)
	if err != nil {
		return 0, Attr{}, err
	}
	if err := a.backend.CreateDir(ctx, p); err != nil {
		return 0, Attr{}, err
	}
	attr, err := a.GetAttr(ctx, id)
	return id, attr, err
}

// ReadDir drains pages from the accessor's pager, allocating an id for
// every entry observed, skipping up to and including startAfterID, and
// stopping once maxEntries have been collected. end is true iff the pager
// was fully drained in this call.
func (a *Adapter) ReadDir(ctx context.Context, dirID uint64, startAfterID uint64, maxEntries int) ([]DirEntry, bool, error) {
	dirPath, ok := a.ids.PathFor(dirID)
	if !ok {
		return nil, false, ovlerrors.ErrNotExist
	}
	pager, err := a.backend.List(ctx, dirPath)
	if err != nil {
		return nil, false, err
	}

	var out []DirEntry
	passedCursor := startAfterID == 0

	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if len(page) == 0 {
			return out, true, nil
		}
		for _, e := range page {
			name := strings.TrimSuffix(e.Name, "/")
			id, err := a.ids.IDFor(e.Path, true)
			if err != nil {
				return nil, false, err
			}
			if !passedCursor {
				if id == startAfterID {
					passedCursor = true
				}
				continue
			}
			attr, err := a.GetAttr(ctx, id)
			if err != nil {
				logger.WarnCtx(ctx, "readdir: getattr failed", logger.Path(e.Path), logger.Err(err))
				continue
			}
			out = append(out, DirEntry{Name: name, ID: id, Attr: attr})
			if len(out) >= maxEntries {
				return out, false, nil
			}
		}
	}
}

// Remove, Rename, Symlink and Readlink are not supported by the overlay
// model (spec Non-goals: no deletion, no whiteouts, no cross-backend
// renames); they always return ovlerrors.ErrNotSupported, which MapError
// (status.go) maps to NFS3ERR_NOTSUPP, or to NFS3ERR_ROFS when its caller
// passes readOnly = true.
func (a *Adapter) Remove(ctx context.Context, dirID uint64, name string) error {
	return ovlerrors.ErrNotSupported
}

func (a *Adapter) Rename(ctx context.Context, srcDirID uint64, srcName string, dstDirID uint64, dstName string) error {
	return ovlerrors.ErrNotSupported
}

func (a *Adapter) Symlink(ctx context.Context, dirID uint64, name, target string) (uint64, error) {
	return 0, ovlerrors.ErrNotSupported
}

func (a *Adapter) Readlink(ctx context.Context, id uint64) (string, error) {
	return "", ovlerrors.ErrNotSupported
}
