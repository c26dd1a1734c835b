//go:build windows

package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMountArgsWindows(t *testing.T) {
	bin, args := BuildMountArgs(Options{MountPoint: "Z:", Host: "127.0.0.1"})
	assert.Equal(t, "mount.exe", bin)
	assert.Equal(t, []string{
		"-o", "anon,nolock,mtype=soft,fileaccess=6,casesensitive,lang=ansi,rsize=128,wsize=128,timeout=60,retry=2",
		`\\127.0.0.1\`, "Z:",
	}, args)
}

func TestBuildMountArgsWindowsReadOnly(t *testing.T) {
	bin, args := BuildMountArgs(Options{MountPoint: "Z:", Host: "127.0.0.1", ReadOnly: true})
	assert.Equal(t, "mount.exe", bin)
	assert.Contains(t, args[1], "fileaccess=4")
}

func TestBuildUmountArgsWindows(t *testing.T) {
	bin, args := BuildUmountArgs(Options{MountPoint: "Z:"})
	assert.Equal(t, "net", bin)
	assert.Equal(t, []string{"use", "Z:", "/delete"}, args)
}
