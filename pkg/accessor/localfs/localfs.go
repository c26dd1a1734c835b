// Package localfs implements accessor.Backend over a directory on local
// disk, using only the standard library (see DESIGN.md for why no
// third-party library is warranted for local filesystem access).
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// Backend roots all paths under Dir.
type Backend struct {
	name string
	dir  string
}

// New returns a backend rooted at dir, which must already exist.
func New(name, dir string) *Backend {
	return &Backend{name: name, dir: filepath.Clean(dir)}
}

func (b *Backend) resolve(p string) string {
	return filepath.Join(b.dir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func (b *Backend) Info() accessor.Info {
	return accessor.Info{
		Scheme: "file",
		Root:   b.dir,
		Name:   b.name,
		Capabilities: accessor.CapRead | accessor.CapWrite | accessor.CapAppend |
			accessor.CapCreateDir | accessor.CapSeek | accessor.CapRange | accessor.CapRename,
	}
}

func mapErr(p string, err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return ovlerrors.ErrNotExist
	}
	return &ovlerrors.IO{Path: p, Cause: err}
}

func (b *Backend) Stat(ctx context.Context, p string) (accessor.Metadata, error) {
	fi, err := os.Stat(b.resolve(p))
	if err != nil {
		return accessor.Metadata{}, mapErr(p, err)
	}
	return accessor.Metadata{IsDir: fi.IsDir(), Size: uint64(fi.Size()), LastModified: fi.ModTime()}, nil
}

func (b *Backend) Read(ctx context.Context, p string, rng accessor.Range) (accessor.Metadata, accessor.Reader, error) {
	meta, err := b.Stat(ctx, p)
	if err != nil {
		return accessor.Metadata{}, nil, err
	}
	if meta.IsDir {
		return accessor.Metadata{}, nil, ovlerrors.ErrIsDir
	}
	f, err := os.Open(b.resolve(p))
	if err != nil {
		return accessor.Metadata{}, nil, mapErr(p, err)
	}
	if rng.Offset > 0 {
		if _, err := f.Seek(int64(rng.Offset), io.SeekStart); err != nil {
			f.Close()
			return accessor.Metadata{}, nil, mapErr(p, err)
		}
	}
	return meta, &boundedReader{f: f, remaining: rng.Count, bounded: rng.Count > 0}, nil
}

type boundedReader struct {
	f         *os.File
	remaining uint64
	bounded   bool
}

func (r *boundedReader) Read(p []byte) (int, error) {
	if r.bounded {
		if r.remaining == 0 {
			return 0, io.EOF
		}
		if uint64(len(p)) > r.remaining {
			p = p[:r.remaining]
		}
	}
	n, err := r.f.Read(p)
	if r.bounded {
		r.remaining -= uint64(n)
	}
	return n, err
}

func (r *boundedReader) Seek(offset int64, whence int) (int64, error) {
	return r.f.Seek(offset, whence)
}

func (r *boundedReader) Close() error { return r.f.Close() }

func (b *Backend) Write(ctx context.Context, p string, opts accessor.WriteOptions) (accessor.Writer, error) {
	full := b.resolve(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, mapErr(p, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, mapErr(p, err)
	}
	return &fileWriter{f: f, path: full}, nil
}

type fileWriter struct {
	f    *os.File
	path string
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.f.Write(p) }
func (w *fileWriter) Abort() error {
	w.f.Close()
	return os.Remove(w.path)
}
func (w *fileWriter) Close() error { return w.f.Close() }

func (b *Backend) Append(ctx context.Context, p string, opts accessor.AppendOptions) (accessor.Appender, error) {
	full := b.resolve(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, mapErr(p, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, mapErr(p, err)
	}
	return f, nil
}

func (b *Backend) CreateDir(ctx context.Context, p string) error {
	return mapErr(p, os.MkdirAll(b.resolve(p), 0o755))
}

func (b *Backend) List(ctx context.Context, p string) (accessor.Pager, error) {
	entries, err := os.ReadDir(b.resolve(p))
	if err != nil {
		return nil, mapErr(p, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make([]accessor.Entry, 0, len(names))
	for _, n := range names {
		out = append(out, accessor.Entry{Name: n, Path: filepath.ToSlash(filepath.Join(p, n))})
	}
	return &onceSlicePager{entries: out}, nil
}

type onceSlicePager struct {
	entries []accessor.Entry
	done    bool
}

func (pg *onceSlicePager) Next(ctx context.Context) ([]accessor.Entry, error) {
	if pg.done {
		return nil, nil
	}
	pg.done = true
	return pg.entries, nil
}
