//go:build darwin

package mount

import "fmt"

// BuildMountArgs returns the macOS mount invocation of spec §4.7:
// `/sbin/mount -t nfs -o [rdonly,]nolocks,vers=3,tcp,port=P,mountport=P,[rsize=,wsize=,actimeo=120,soft] IP:/PREFIX MOUNTPOINT`.
func BuildMountArgs(opts Options) (string, []string) {
	optStr := ""
	if opts.ReadOnly {
		optStr += "rdonly,"
	}
	optStr += fmt.Sprintf("nolocks,vers=3,tcp,port=%d,mountport=%d", opts.Port, opts.Port)
	if opts.RSize > 0 {
		optStr += fmt.Sprintf(",rsize=%d", opts.RSize)
	}
	if opts.WSize > 0 {
		optStr += fmt.Sprintf(",wsize=%d", opts.WSize)
	}
	optStr += ",actimeo=120,soft"

	source := fmt.Sprintf("%s:/", opts.Host)
	return "/sbin/mount", []string{"-t", "nfs", "-o", optStr, source, opts.MountPoint}
}

// BuildUmountArgs returns the macOS umount invocation of spec §4.7:
// `diskutil umount force MOUNTPOINT`.
func BuildUmountArgs(opts Options) (string, []string) {
	return "diskutil", []string{"umount", "force", opts.MountPoint}
}
