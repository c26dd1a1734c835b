// Package sftp implements accessor.Backend over an SFTP server, grounded on
// the github.com/pkg/sftp + golang.org/x/crypto/ssh pairing vendored under
// rclone-rclone's sftp backend.
package sftp

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// Config describes how to reach and authenticate against the SFTP server.
type Config struct {
	Addr     string // host:port
	User     string
	Password string
	Root     string
}

// Backend is an accessor.Backend backed by a single SFTP session rooted at
// Root.
type Backend struct {
	name   string
	root   string
	client *sftp.Client
	conn   *ssh.Client
}

// New dials the SFTP server and opens a session rooted at cfg.Root.
func New(name string, cfg Config) (*Backend, error) {
	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	conn, err := ssh.Dial("tcp", cfg.Addr, sshCfg)
	if err != nil {
		return nil, &ovlerrors.BackendConstruction{Cause: err}
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, &ovlerrors.BackendConstruction{Cause: err}
	}
	root := cfg.Root
	if root == "" {
		root = "/"
	}
	return &Backend{name: name, root: root, client: client, conn: conn}, nil
}

// Close releases the underlying SSH connection.
func (b *Backend) Close() error {
	b.client.Close()
	return b.conn.Close()
}

func (b *Backend) resolve(p string) string {
	return path.Join(b.root, strings.TrimPrefix(p, "/"))
}

func (b *Backend) Info() accessor.Info {
	return accessor.Info{
		Scheme: "sftp",
		Root:   b.root,
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
	fi, err := b.client.Stat(b.resolve(p))
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
	f, err := b.client.Open(b.resolve(p))
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
	f         *sftp.File
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
	if err := b.client.MkdirAll(path.Dir(full)); err != nil {
		return nil, mapErr(p, err)
	}
	f, err := b.client.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return nil, mapErr(p, err)
	}
	return &fileWriter{f: f, client: b.client, path: full}, nil
}

type fileWriter struct {
	f      *sftp.File
	client *sftp.Client
	path   string
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.f.Write(p) }
func (w *fileWriter) Abort() error {
	w.f.Close()
	return w.client.Remove(w.path)
}
func (w *fileWriter) Close() error { return w.f.Close() }

func (b *Backend) Append(ctx context.Context, p string, opts accessor.AppendOptions) (accessor.Appender, error) {
	full := b.resolve(p)
	if err := b.client.MkdirAll(path.Dir(full)); err != nil {
		return nil, mapErr(p, err)
	}
	f, err := b.client.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
	if err != nil {
		return nil, mapErr(p, err)
	}
	return f, nil
}

func (b *Backend) CreateDir(ctx context.Context, p string) error {
	return mapErr(p, b.client.MkdirAll(b.resolve(p)))
}

func (b *Backend) List(ctx context.Context, p string) (accessor.Pager, error) {
	entries, err := b.client.ReadDir(b.resolve(p))
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
		out = append(out, accessor.Entry{Name: n, Path: path.Join(p, n)})
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
