package nfsfs

import (
	"context"
	"io"
	"os"
	"path"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// FS adapts Adapter to billy.Filesystem so it can be handed to
// willscott/go-nfs, which drives the wire-level NFSv3 codec (spec §1's
// external NFS server library) in terms of billy.Filesystem paths rather
// than the 64-bit ids spec §4.6 describes. FS is the translation shim: it
// resolves or allocates an id for every path it is asked about and
// delegates the actual work to Adapter, so Adapter remains the single
// source of truth for the operations spec §4.6 names.
type FS struct {
	adapter *Adapter
}

// NewFS wraps adapter as a billy.Filesystem.
func NewFS(adapter *Adapter) *FS {
	return &FS{adapter: adapter}
}

var _ billy.Filesystem = (*FS)(nil)

func (fs *FS) idFor(p string, insert bool) (uint64, error) {
	id, err := fs.adapter.ids.IDFor(p, insert)
	if err != nil {
		return 0, err
	}
	return id, nil
}

type fileInfo struct {
	name string
	attr Attr
}

func (fi fileInfo) Name() string { return fi.name }
func (fi fileInfo) Size() int64  { return int64(fi.attr.Size) }
func (fi fileInfo) Mode() os.FileMode {
	if fi.attr.Type == FileTypeDir {
		return os.FileMode(fi.attr.Mode) | os.ModeDir
	}
	return os.FileMode(fi.attr.Mode)
}
func (fi fileInfo) ModTime() time.Time { return fi.attr.ModTime }
func (fi fileInfo) IsDir() bool        { return fi.attr.Type == FileTypeDir }
func (fi fileInfo) Sys() any           { return fi.attr }

func (fs *FS) Stat(filename string) (os.FileInfo, error) {
	id, err := fs.idFor(filename, false)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: filename, Err: os.ErrNotExist}
	}
	attr, err := fs.adapter.GetAttr(context.Background(), id)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: filename, Err: os.ErrNotExist}
	}
	return fileInfo{name: path.Base(filename), attr: attr}, nil
}

func (fs *FS) Lstat(filename string) (os.FileInfo, error) { return fs.Stat(filename) }

func (fs *FS) ReadDir(dirname string) ([]os.FileInfo, error) {
	dirID, err := fs.idFor(dirname, false)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: os.ErrNotExist}
	}
	var out []os.FileInfo
	cursor := uint64(0)
	for {
		entries, end, err := fs.adapter.ReadDir(context.Background(), dirID, cursor, 256)
		if err != nil {
			return nil, &os.PathError{Op: "readdir", Path: dirname, Err: err}
		}
		for _, e := range entries {
			out = append(out, fileInfo{name: e.Name, attr: e.Attr})
			cursor = e.ID
		}
		if end {
			break
		}
	}
	return out, nil
}

type billyFile struct {
	fs     *FS
	name   string
	id     uint64
	offset int64
}

func (f *billyFile) Name() string { return f.name }

func (f *billyFile) Read(p []byte) (int, error) {
	data, eof, err := f.fs.adapter.Read(context.Background(), f.id, uint64(f.offset), uint32(len(p)))
	if err != nil {
		return 0, err
	}
	n := copy(p, data)
	f.offset += int64(n)
	if eof {
		if n == 0 {
			return 0, io.EOF
		}
		return n, io.EOF
	}
	return n, nil
}

func (f *billyFile) ReadAt(p []byte, off int64) (int, error) {
	data, _, err := f.fs.adapter.Read(context.Background(), f.id, uint64(off), uint32(len(p)))
	if err != nil {
		return 0, err
	}
	return copy(p, data), nil
}

func (f *billyFile) Write(p []byte) (int, error) {
	if _, err := f.fs.adapter.Write(context.Background(), f.id, uint64(f.offset), p); err != nil {
		return 0, err
	}
	f.offset += int64(len(p))
	return len(p), nil
}

func (f *billyFile) Close() error { return nil }
func (f *billyFile) Lock() error  { return nil }
func (f *billyFile) Unlock() error { return nil }
func (f *billyFile) Truncate(size int64) error { return ovlerrors.ErrNotSupported }

func (f *billyFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case os.SEEK_SET:
		f.offset = offset
	case os.SEEK_CUR:
		f.offset += offset
	case os.SEEK_END:
		attr, err := f.fs.adapter.GetAttr(context.Background(), f.id)
		if err != nil {
			return 0, err
		}
		f.offset = int64(attr.Size) + offset
	}
	return f.offset, nil
}

func (fs *FS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *FS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	insert := flag&os.O_CREATE != 0
	id, err := fs.idFor(filename, insert)
	if err != nil {
		if insert {
			return nil, &os.PathError{Op: "open", Path: filename, Err: err}
		}
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	if insert {
		parentID, perr := fs.idFor(path.Dir(filename), false)
		if perr == nil {
			if _, _, err := fs.adapter.Create(context.Background(), parentID, path.Base(filename)); err != nil {
				return nil, &os.PathError{Op: "open", Path: filename, Err: err}
			}
		}
	}
	return &billyFile{fs: fs, name: filename, id: id}, nil
}

func (fs *FS) Create(filename string) (billy.File, error) {
	parentID, err := fs.idFor(path.Dir(filename), false)
	if err != nil {
		return nil, &os.PathError{Op: "create", Path: filename, Err: os.ErrNotExist}
	}
	id, _, err := fs.adapter.Create(context.Background(), parentID, path.Base(filename))
	if err != nil {
		return nil, &os.PathError{Op: "create", Path: filename, Err: err}
	}
	return &billyFile{fs: fs, name: filename, id: id}, nil
}

func (fs *FS) MkdirAll(filename string, perm os.FileMode) error {
	parentID, err := fs.idFor(path.Dir(filename), false)
	if err != nil {
		return &os.PathError{Op: "mkdirall", Path: filename, Err: os.ErrNotExist}
	}
	_, _, err = fs.adapter.Mkdir(context.Background(), parentID, path.Base(filename))
	return err
}

func (fs *FS) Join(elem ...string) string { return path.Join(elem...) }

func (fs *FS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, os.ErrInvalid
}

func (fs *FS) Remove(filename string) error {
	parentID, err := fs.idFor(path.Dir(filename), false)
	if err != nil {
		return &os.PathError{Op: "remove", Path: filename, Err: os.ErrNotExist}
	}
	return fs.adapter.Remove(context.Background(), parentID, path.Base(filename))
}

func (fs *FS) Rename(oldpath, newpath string) error {
	oldParent, err := fs.idFor(path.Dir(oldpath), false)
	if err != nil {
		return &os.PathError{Op: "rename", Path: oldpath, Err: os.ErrNotExist}
	}
	newParent, err := fs.idFor(path.Dir(newpath), false)
	if err != nil {
		return &os.PathError{Op: "rename", Path: newpath, Err: os.ErrNotExist}
	}
	return fs.adapter.Rename(context.Background(), oldParent, path.Base(oldpath), newParent, path.Base(newpath))
}

func (fs *FS) Symlink(target, link string) error {
	parentID, err := fs.idFor(path.Dir(link), false)
	if err != nil {
		return &os.PathError{Op: "symlink", Path: link, Err: os.ErrNotExist}
	}
	_, err = fs.adapter.Symlink(context.Background(), parentID, path.Base(link), target)
	return err
}

func (fs *FS) Readlink(link string) (string, error) {
	id, err := fs.idFor(link, false)
	if err != nil {
		return "", &os.PathError{Op: "readlink", Path: link, Err: os.ErrNotExist}
	}
	return fs.adapter.Readlink(context.Background(), id)
}

// Chmod, Chown and Lchown are no-ops: the overlay model reports static
// uid/gid and never enforces or mutates permissions (spec §4.6 setattr,
// §1 Non-goals).
func (fs *FS) Chmod(name string, mode os.FileMode) error        { return nil }
func (fs *FS) Chown(name string, uid, gid int) error             { return nil }
func (fs *FS) Lchown(name string, uid, gid int) error            { return nil }
func (fs *FS) Chtimes(name string, atime, mtime time.Time) error { return nil }

// Root reports "/" — FS is always rooted at the overlay's root.
func (fs *FS) Root() string { return "/" }

// Chroot returns a billy.Filesystem rooted at path, per the pack's own
// billy implementations (mache's GraphFS.Chroot): wrap fs in go-billy's
// generic chroot helper rather than reimplementing path confinement here.
func (fs *FS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(fs, path), nil
}
