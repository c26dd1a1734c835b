package overlay_test

import (
	"context"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/accessor/memory"
	"github.com/ovlmount/ovlmount/pkg/overlay"
)

func writeFile(t *testing.T, b accessor.Backend, path, content string) {
	t.Helper()
	w, err := b.Write(context.Background(), path, accessor.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func listNames(t *testing.T, b accessor.Backend, path string) []string {
	t.Helper()
	pager, err := b.List(context.Background(), path)
	require.NoError(t, err)
	var names []string
	for {
		entries, err := pager.Next(context.Background())
		require.NoError(t, err)
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

func TestBaseOnlyListing(t *testing.T) {
	base := memory.New("base")
	ov := memory.New("overlay")
	writeFile(t, base, "/hello.txt", "hi")
	writeFile(t, ov, "/world.txt", "earth")

	composite := overlay.New(base, ov, overlay.BaseOnlyPolicy{})
	assert.Equal(t, []string{"hello.txt"}, listNames(t, composite, "/"))
}

func TestUnionListing(t *testing.T) {
	base := memory.New("base")
	ov := memory.New("overlay")
	writeFile(t, base, "/hello.txt", "hi")
	writeFile(t, ov, "/world.txt", "earth")

	composite := overlay.New(base, ov, overlay.UnionPolicy{})
	assert.Equal(t, []string{"hello.txt", "world.txt"}, listNames(t, composite, "/"))
}

func TestSpecialFilesRouting(t *testing.T) {
	base := memory.New("base")
	ov := memory.New("overlay")
	writeFile(t, base, "/doc.pdf", "pdfdata")
	writeFile(t, ov, "/.DS_Store", "dsstore")

	composite := overlay.New(base, ov, overlay.SpecialFilesPolicy{})

	meta, r, err := composite.Read(context.Background(), "/.DS_Store", accessor.Range{})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "dsstore", string(data))
	assert.Equal(t, uint64(len("dsstore")), meta.Size)

	_, r2, err := composite.Read(context.Background(), "/doc.pdf", accessor.Range{})
	require.NoError(t, err)
	data2, err := io.ReadAll(r2)
	require.NoError(t, err)
	assert.Equal(t, "pdfdata", string(data2))

	assert.ElementsMatch(t, []string{"doc.pdf", ".DS_Store"}, listNames(t, composite, "/"))
}

func TestWriteThroughBase(t *testing.T) {
	base := memory.New("base")
	ov := memory.New("overlay")
	composite := overlay.New(base, ov, overlay.BaseOnlyPolicy{})

	writeFile(t, composite, "/hello.txt", "hello")
	assert.Equal(t, []string{"hello.txt"}, listNames(t, composite, "/"))

	_, r, err := base.Read(context.Background(), "/hello.txt", accessor.Range{})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Empty(t, listNames(t, ov, "/"))
}

func TestReadRoundTrip(t *testing.T) {
	base := memory.New("base")
	ov := memory.New("overlay")
	writeFile(t, base, "/a.txt", "abcdef")

	composite := overlay.New(base, ov, overlay.BaseOnlyPolicy{})

	_, r, err := composite.Read(context.Background(), "/a.txt", accessor.Range{Offset: 2, Count: 3})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "cde", string(data))

	_, r2, err := composite.Read(context.Background(), "/a.txt", accessor.Range{Offset: 2, Count: 1000})
	require.NoError(t, err)
	data2, err := io.ReadAll(r2)
	require.NoError(t, err)
	assert.Equal(t, "cdef", string(data2))
}
