package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "union", cfg.Policy)
	assert.Equal(t, "memory", cfg.Base.Scheme)
	assert.Equal(t, "memory", cfg.Overlay.Scheme)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ovlmount.yaml")
	contents := []byte("mount_point: /mnt/overlay\npolicy: special-files\nbase:\n  scheme: fs\n  params:\n    root: /data\n")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/overlay", cfg.MountPoint)
	assert.Equal(t, "special-files", cfg.Policy)
	assert.Equal(t, "fs", cfg.Base.Scheme)
	assert.Equal(t, "/data", cfg.Base.Params["root"])
	// overlay left unset, default still applies
	assert.Equal(t, "memory", cfg.Overlay.Scheme)
}

func TestResolvePolicyUnknownFallsBackToUnion(t *testing.T) {
	assert.Equal(t, "union", ResolvePolicy("bogus"))
	assert.Equal(t, "naive", ResolvePolicy("naive"))
}
