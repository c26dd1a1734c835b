package controlplane

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovlmount/ovlmount/pkg/accessor/memory"
)

func TestRegisterServiceAndUnregister(t *testing.T) {
	reg := NewRegistry()
	backend := memory.New("test")

	ctx := context.Background()
	id, err := reg.RegisterService(ctx, RegisterOptions{
		BindAddr:   "127.0.0.1:0",
		MountPoint: "/tmp/ovlmount-test",
		Name:       "test",
	}, backend)
	require.NoError(t, err)

	fs, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "/tmp/ovlmount-test", fs.MountPoint)
	assert.Equal(t, "memory", fs.Scheme)

	addr, ok := reg.LocalAddr(id)
	require.True(t, ok)
	assert.NotNil(t, addr)

	assert.True(t, reg.IsMounted("/tmp/ovlmount-test"))

	ok, err = reg.Unregister(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, reg.IsMounted("/tmp/ovlmount-test"))
}

func TestRegisterServiceRejectsDuplicateMountPoint(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	id, err := reg.RegisterService(ctx, RegisterOptions{
		BindAddr:   "127.0.0.1:0",
		MountPoint: "/tmp/ovlmount-dup",
	}, memory.New("a"))
	require.NoError(t, err)
	defer reg.Unregister(id)

	_, err = reg.RegisterService(ctx, RegisterOptions{
		BindAddr:   "127.0.0.1:0",
		MountPoint: "/tmp/ovlmount-dup",
	}, memory.New("b"))
	assert.Error(t, err)
}

func TestUnregisterMissingServiceReturnsNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Unregister(uuid.New())
	assert.Error(t, err)
}

func TestFileSystemsAndList(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	id, err := reg.RegisterService(ctx, RegisterOptions{
		BindAddr:   "127.0.0.1:0",
		MountPoint: "/tmp/ovlmount-list",
		Name:       "listed",
	}, memory.New("listed"))
	require.NoError(t, err)
	defer reg.Unregister(id)

	ids := reg.FileSystems()
	assert.Contains(t, ids, id)

	list := reg.List()
	require.Len(t, list, 1)
	assert.Equal(t, "listed", list[0].Name)
}
