package idmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootSeeded(t *testing.T) {
	m := New()
	p, ok := m.PathFor(RootID)
	require.True(t, ok)
	assert.Equal(t, RootPath, p)

	id, err := m.IDFor(RootPath, false)
	require.NoError(t, err)
	assert.Equal(t, RootID, id)
}

func TestIDForStableAcrossCalls(t *testing.T) {
	m := New()
	id1, err := m.IDFor("/hello.txt", true)
	require.NoError(t, err)

	id2, err := m.IDFor("/hello.txt", true)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	p, ok := m.PathFor(id1)
	require.True(t, ok)
	assert.Equal(t, "/hello.txt", p)
}

func TestIDForNoInsertMissReturnsNotExist(t *testing.T) {
	m := New()
	_, err := m.IDFor("/missing.txt", false)
	assert.Error(t, err)
}

func TestDistinctPathsGetDistinctIDs(t *testing.T) {
	m := New()
	a, err := m.IDFor("/a.txt", true)
	require.NoError(t, err)
	b, err := m.IDFor("/b.txt", true)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 3, m.Len())
}
