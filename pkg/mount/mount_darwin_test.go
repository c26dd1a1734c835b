//go:build darwin

package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMountArgsDarwin(t *testing.T) {
	bin, args := BuildMountArgs(Options{MountPoint: "/Volumes/x", Host: "127.0.0.1", Port: 2049})
	assert.Equal(t, "/sbin/mount", bin)
	assert.Equal(t, []string{
		"-t", "nfs",
		"-o", "nolocks,vers=3,tcp,port=2049,mountport=2049,actimeo=120,soft",
		"127.0.0.1:/", "/Volumes/x",
	}, args)
}

func TestBuildUmountArgsDarwin(t *testing.T) {
	bin, args := BuildUmountArgs(Options{MountPoint: "/Volumes/x"})
	assert.Equal(t, "diskutil", bin)
	assert.Equal(t, []string{"umount", "force", "/Volumes/x"}, args)
}
