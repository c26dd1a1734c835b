//go:build windows

package mount

import "fmt"

// BuildMountArgs returns the Windows mount invocation of spec §4.7:
// `mount.exe -o anon,nolock,mtype=soft,fileaccess={4|6},casesensitive,lang=ansi,rsize=128,wsize=128,timeout=60,retry=2 \\IP\ DRIVE:`.
// Requires port == 111.
func BuildMountArgs(opts Options) (string, []string) {
	fileaccess := 6
	if opts.ReadOnly {
		fileaccess = 4
	}
	rsize := opts.RSize
	if rsize == 0 {
		rsize = 128
	}
	wsize := opts.WSize
	if wsize == 0 {
		wsize = 128
	}
	optStr := fmt.Sprintf(
		"anon,nolock,mtype=soft,fileaccess=%d,casesensitive,lang=ansi,rsize=%d,wsize=%d,timeout=60,retry=2",
		fileaccess, rsize, wsize,
	)
	source := fmt.Sprintf(`\\%s\`, opts.Host)
	return "mount.exe", []string{"-o", optStr, source, opts.MountPoint}
}

// BuildUmountArgs returns the Windows umount invocation.
func BuildUmountArgs(opts Options) (string, []string) {
	return "net", []string{"use", opts.MountPoint, "/delete"}
}
