package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New("t", t.TempDir())

	w, err := b.Write(ctx, "/a/b/file.txt", accessor.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	meta, r, err := b.Read(ctx, "/a/b/file.txt", accessor.Range{})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, uint64(5), meta.Size)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestReadRangeSeeksToOffset(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "range.txt"), []byte("0123456789"), 0o644))
	b := New("t", dir)

	_, r, err := b.Read(ctx, "/range.txt", accessor.Range{Offset: 3, Count: 4})
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "3456", string(data))
}

func TestStatMissingReturnsNotExist(t *testing.T) {
	b := New("t", t.TempDir())
	_, err := b.Stat(context.Background(), "/nope")
	assert.ErrorIs(t, err, ovlerrors.ErrNotExist)
}

func TestAppendCreatesThenAccumulates(t *testing.T) {
	ctx := context.Background()
	b := New("t", t.TempDir())

	for _, chunk := range []string{"a", "b"} {
		ap, err := b.Append(ctx, "/log.txt", accessor.AppendOptions{})
		require.NoError(t, err)
		_, err = ap.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, ap.Close())
	}

	_, r, err := b.Read(ctx, "/log.txt", accessor.Range{})
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestListSortsEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("y"), 0o644))
	b := New("t", dir)

	pager, err := b.List(ctx, "/")
	require.NoError(t, err)
	page, err := pager.Next(ctx)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a.txt", page[0].Name)
	assert.Equal(t, "b.txt", page[1].Name)

	next, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestCreateDirIsRecursive(t *testing.T) {
	ctx := context.Background()
	b := New("t", t.TempDir())
	require.NoError(t, b.CreateDir(ctx, "/nested/deep"))

	meta, err := b.Stat(ctx, "/nested/deep")
	require.NoError(t, err)
	assert.True(t, meta.IsDir)
}
