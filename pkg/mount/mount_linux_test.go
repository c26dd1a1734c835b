//go:build linux

package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMountArgsLinux(t *testing.T) {
	bin, args := BuildMountArgs(Options{MountPoint: "/mnt/x", Host: "127.0.0.1", Port: 2049})
	assert.Equal(t, "mount.nfs", bin)
	assert.Equal(t, []string{
		"-o", "user,noacl,nolock,vers=3,tcp,wsize=1048576,rsize=131072,actimeo=120,port=2049,mountport=2049",
		"127.0.0.1:/", "/mnt/x",
	}, args)
}

func TestBuildMountArgsLinuxWithSudo(t *testing.T) {
	bin, args := BuildMountArgs(Options{MountPoint: "/mnt/x", Host: "127.0.0.1", Port: 2049, UseSudo: true})
	assert.Equal(t, "sudo", bin)
	assert.Equal(t, "mount.nfs", args[0])
}

func TestBuildUmountArgsLinux(t *testing.T) {
	bin, args := BuildUmountArgs(Options{MountPoint: "/mnt/x"})
	assert.Equal(t, "umount", bin)
	assert.Equal(t, []string{"/mnt/x"}, args)
}
