//go:build linux

package mount

import "fmt"

// BuildMountArgs returns the Linux mount invocation of spec §4.7:
// `[sudo] mount.nfs -o user,noacl,nolock,vers=3,tcp,[wsize=1048576,]rsize=131072,actimeo=120,port=P,mountport=P IP:/ MOUNTPOINT`.
func BuildMountArgs(opts Options) (string, []string) {
	optStr := "user,noacl,nolock,vers=3,tcp,"
	if opts.WSize > 0 {
		optStr += fmt.Sprintf("wsize=%d,", opts.WSize)
	} else {
		optStr += "wsize=1048576,"
	}
	rsize := opts.RSize
	if rsize == 0 {
		rsize = 131072
	}
	optStr += fmt.Sprintf("rsize=%d,actimeo=120,port=%d,mountport=%d", rsize, opts.Port, opts.Port)

	source := fmt.Sprintf("%s:/", opts.Host)
	args := []string{"-o", optStr, source, opts.MountPoint}

	if opts.UseSudo {
		return "sudo", append([]string{"mount.nfs"}, args...)
	}
	return "mount.nfs", args
}

// BuildUmountArgs returns the Linux umount invocation. §4.7 names only the
// mount command explicitly; umount follows the same sudo convention.
func BuildUmountArgs(opts Options) (string, []string) {
	if opts.UseSudo {
		return "sudo", []string{"umount", opts.MountPoint}
	}
	return "umount", []string{opts.MountPoint}
}
