// Package mount implements the platform-specific mount driver of spec §4.7:
// spawning native mount/umount binaries to attach or detach the in-process
// NFS server at a local directory.
package mount

import (
	"context"
	"os"
	"os/exec"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// Options configures a mount/umount invocation.
type Options struct {
	MountPoint string
	Host       string // server IP/hostname, e.g. "127.0.0.1"
	Port       int    // NFS TCP port
	ReadOnly   bool
	RSize      int
	WSize      int
	UseSudo    bool // Linux only
}

// Mount spawns the platform mount command and waits for it to exit. The
// mount point directory is created if absent.
func Mount(ctx context.Context, opts Options) error {
	if err := os.MkdirAll(opts.MountPoint, 0o755); err != nil {
		return &ovlerrors.MountFailure{MountPoint: opts.MountPoint, Reason: err.Error()}
	}
	bin, args := BuildMountArgs(opts)
	return run(ctx, opts.MountPoint, bin, args)
}

// Umount spawns the platform umount command and waits for it to exit.
func Umount(ctx context.Context, opts Options) error {
	bin, args := BuildUmountArgs(opts)
	return run(ctx, opts.MountPoint, bin, args)
}

func run(ctx context.Context, mountPoint, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error("mount command failed", logger.MountPoint(mountPoint), logger.Err(err))
		return &ovlerrors.MountFailure{MountPoint: mountPoint, Reason: string(out)}
	}
	return nil
}
