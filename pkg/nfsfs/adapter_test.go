package nfsfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/accessor/memory"
	"github.com/ovlmount/ovlmount/pkg/idmap"
	"github.com/ovlmount/ovlmount/pkg/nfsfs"
)

func newAdapter(t *testing.T) (*nfsfs.Adapter, accessor.Backend) {
	t.Helper()
	backend := memory.New("test")
	ids := idmap.New()
	return nfsfs.New(backend, ids, 1000, 1000), backend
}

func TestRootDir(t *testing.T) {
	a, _ := newAdapter(t)
	assert.Equal(t, idmap.RootID, a.RootDir())
}

func TestIDStabilityAcrossReaddirAndLookup(t *testing.T) {
	ctx := context.Background()
	a, backend := newAdapter(t)

	w, err := backend.Write(ctx, "/hello.txt", accessor.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	entries, end, err := a.ReadDir(ctx, a.RootDir(), 0, 10)
	require.NoError(t, err)
	assert.True(t, end)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello.txt", entries[0].Name)

	id, err := a.Lookup(ctx, a.RootDir(), "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, entries[0].ID, id)

	attr, err := a.GetAttr(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, attr.FileID)
}

func TestLookupUnobservedPathNotFound(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t)
	_, err := a.Lookup(ctx, a.RootDir(), "nope.txt")
	assert.Error(t, err)
}

func TestCreateThenReadWriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t)

	id, _, err := a.Create(ctx, a.RootDir(), "new.txt")
	require.NoError(t, err)

	_, err = a.Write(ctx, id, 0, []byte("hello"))
	require.NoError(t, err)

	// All 5 requested bytes come back, so eof is false: it is set only when
	// fewer bytes are returned than requested.
	data, eof, err := a.Read(ctx, id, 0, 5)
	require.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, "hello", string(data))
}

func TestReadDirHonorsMaxEntriesAndCursor(t *testing.T) {
	ctx := context.Background()
	a, backend := newAdapter(t)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		w, err := backend.Write(ctx, "/"+name, accessor.WriteOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	first, end, err := a.ReadDir(ctx, a.RootDir(), 0, 2)
	require.NoError(t, err)
	assert.False(t, end)
	assert.Len(t, first, 2)

	rest, end, err := a.ReadDir(ctx, a.RootDir(), first[1].ID, 10)
	require.NoError(t, err)
	assert.True(t, end)
	assert.Len(t, rest, 1)
	assert.Equal(t, "c.txt", rest[0].Name)
}

func TestUnsupportedOps(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t)

	assert.Error(t, a.Remove(ctx, a.RootDir(), "x"))
	assert.Error(t, a.Rename(ctx, a.RootDir(), "x", a.RootDir(), "y"))
	_, err := a.Symlink(ctx, a.RootDir(), "x", "target")
	assert.Error(t, err)
	_, err = a.Readlink(ctx, a.RootDir())
	assert.Error(t, err)
}
