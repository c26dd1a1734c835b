package memory

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New("t")

	w, err := b.Write(ctx, "/foo.txt", accessor.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	meta, r, err := b.Read(ctx, "/foo.txt", accessor.Range{})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, uint64(5), meta.Size)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAppendAccumulates(t *testing.T) {
	ctx := context.Background()
	b := New("t")

	for _, chunk := range []string{"a", "b", "c"} {
		ap, err := b.Append(ctx, "/log", accessor.AppendOptions{})
		require.NoError(t, err)
		_, err = ap.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, ap.Close())
	}

	_, r, err := b.Read(ctx, "/log", accessor.Range{})
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestReadRangeRespectsOffsetAndCount(t *testing.T) {
	ctx := context.Background()
	b := New("t")
	w, _ := b.Write(ctx, "/range.txt", accessor.WriteOptions{})
	w.Write([]byte("0123456789"))
	require.NoError(t, w.Close())

	_, r, err := b.Read(ctx, "/range.txt", accessor.Range{Offset: 2, Count: 3})
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "234", string(data))
}

func TestStatNotExist(t *testing.T) {
	ctx := context.Background()
	b := New("t")
	_, err := b.Stat(ctx, "/missing")
	assert.ErrorIs(t, err, ovlerrors.ErrNotExist)
}

func TestCreateDirIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := New("t")
	require.NoError(t, b.CreateDir(ctx, "/dir"))
	require.NoError(t, b.CreateDir(ctx, "/dir"))

	meta, err := b.Stat(ctx, "/dir")
	require.NoError(t, err)
	assert.True(t, meta.IsDir)
}

func TestListReturnsImmediateChildrenOnly(t *testing.T) {
	ctx := context.Background()
	b := New("t")
	require.NoError(t, b.CreateDir(ctx, "/a"))
	w, _ := b.Write(ctx, "/a/file.txt", accessor.WriteOptions{})
	w.Write([]byte("x"))
	require.NoError(t, w.Close())
	w2, _ := b.Write(ctx, "/a/nested/deep.txt", accessor.WriteOptions{})
	w2.Write([]byte("y"))
	require.NoError(t, w2.Close())

	pager, err := b.List(ctx, "/a")
	require.NoError(t, err)
	page, err := pager.Next(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(page))
	for _, e := range page {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"file.txt", "nested"}, names)
}

func TestListOnFileReturnsNotDir(t *testing.T) {
	ctx := context.Background()
	b := New("t")
	w, _ := b.Write(ctx, "/file.txt", accessor.WriteOptions{})
	w.Write([]byte("x"))
	require.NoError(t, w.Close())

	_, err := b.List(ctx, "/file.txt")
	assert.ErrorIs(t, err, ovlerrors.ErrNotDir)
}
