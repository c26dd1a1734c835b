// Package memory implements an in-process accessor.Backend backed by a
// guarded map. It exists so the overlay's policy and merge logic can be
// exercised in tests without a network dependency (see DESIGN.md).
package memory

import (
	"bytes"
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

type object struct {
	isDir    bool
	data     []byte
	modified time.Time
}

// Backend is a thread-safe in-memory accessor.Backend.
type Backend struct {
	name string
	mu   sync.RWMutex
	objs map[string]*object
}

// New returns an empty in-memory backend, seeded with a root directory.
func New(name string) *Backend {
	return &Backend{
		name: name,
		objs: map[string]*object{
			"/": {isDir: true, modified: time.Now()},
		},
	}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func (b *Backend) Info() accessor.Info {
	return accessor.Info{
		Scheme: "memory",
		Root:   "/",
		Name:   b.name,
		Capabilities: accessor.CapRead | accessor.CapWrite | accessor.CapAppend |
			accessor.CapCreateDir | accessor.CapSeek | accessor.CapRange,
	}
}

func (b *Backend) Stat(ctx context.Context, p string) (accessor.Metadata, error) {
	p = clean(p)
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.objs[p]
	if !ok {
		return accessor.Metadata{}, ovlerrors.ErrNotExist
	}
	return accessor.Metadata{IsDir: o.isDir, Size: uint64(len(o.data)), LastModified: o.modified}, nil
}

func (b *Backend) Read(ctx context.Context, p string, rng accessor.Range) (accessor.Metadata, accessor.Reader, error) {
	p = clean(p)
	b.mu.RLock()
	o, ok := b.objs[p]
	b.mu.RUnlock()
	if !ok {
		return accessor.Metadata{}, nil, ovlerrors.ErrNotExist
	}
	if o.isDir {
		return accessor.Metadata{}, nil, ovlerrors.ErrIsDir
	}
	data := o.data
	if rng.Offset > uint64(len(data)) {
		data = nil
	} else {
		data = data[rng.Offset:]
	}
	if rng.Count > 0 && uint64(len(data)) > rng.Count {
		data = data[:rng.Count]
	}
	meta := accessor.Metadata{IsDir: false, Size: uint64(len(o.data)), LastModified: o.modified}
	return meta, &reader{r: bytes.NewReader(data)}, nil
}

type reader struct{ r *bytes.Reader }

func (r *reader) Read(p []byte) (int, error)     { return r.r.Read(p) }
func (r *reader) Seek(o int64, w int) (int64, error) { return r.r.Seek(o, w) }
func (r *reader) Close() error                    { return nil }

func (b *Backend) Write(ctx context.Context, p string, opts accessor.WriteOptions) (accessor.Writer, error) {
	p = clean(p)
	return &writer{backend: b, path: p}, nil
}

type writer struct {
	backend *Backend
	path    string
	buf     bytes.Buffer
	aborted bool
}

func (w *writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *writer) Abort() error {
	w.aborted = true
	return nil
}

func (w *writer) Close() error {
	if w.aborted {
		return nil
	}
	w.backend.mu.Lock()
	defer w.backend.mu.Unlock()
	w.backend.objs[w.path] = &object{data: append([]byte(nil), w.buf.Bytes()...), modified: time.Now()}
	return nil
}

func (b *Backend) Append(ctx context.Context, p string, opts accessor.AppendOptions) (accessor.Appender, error) {
	p = clean(p)
	return &appender{backend: b, path: p}, nil
}

type appender struct {
	backend *Backend
	path    string
	buf     bytes.Buffer
}

func (a *appender) Write(p []byte) (int, error) { return a.buf.Write(p) }

func (a *appender) Close() error {
	a.backend.mu.Lock()
	defer a.backend.mu.Unlock()
	o, ok := a.backend.objs[a.path]
	if !ok {
		o = &object{}
		a.backend.objs[a.path] = o
	}
	o.data = append(o.data, a.buf.Bytes()...)
	o.modified = time.Now()
	return nil
}

func (b *Backend) CreateDir(ctx context.Context, p string) error {
	p = clean(p)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objs[p]; ok {
		return nil
	}
	b.objs[p] = &object{isDir: true, modified: time.Now()}
	return nil
}

func (b *Backend) List(ctx context.Context, p string) (accessor.Pager, error) {
	p = clean(p)
	b.mu.RLock()
	defer b.mu.RUnlock()
	if o, ok := b.objs[p]; !ok || !o.isDir {
		if !ok {
			return nil, ovlerrors.ErrNotExist
		}
		return nil, ovlerrors.ErrNotDir
	}

	prefix := p
	if prefix != "/" {
		prefix += "/"
	}
	seen := map[string]bool{}
	var names []string
	for candidate := range b.objs {
		if candidate == p || !strings.HasPrefix(candidate, prefix) {
			continue
		}
		rest := strings.TrimPrefix(candidate, prefix)
		name := strings.SplitN(rest, "/", 2)[0]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]accessor.Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, accessor.Entry{Name: n, Path: path.Join(p, n)})
	}
	return &pager{entries: entries}, nil
}

type pager struct {
	entries []accessor.Entry
	done    bool
}

func (pg *pager) Next(ctx context.Context) ([]accessor.Entry, error) {
	if pg.done {
		return nil, nil
	}
	pg.done = true
	return pg.entries, nil
}
