package nfsfs

import "time"

// FileType distinguishes regular files from directories in Attr, matching
// the two ftype values the NFSv3 adapter ever produces (spec §3: "Entry
// metadata (fattr)").
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDir
)

// Capabilities is what Adapter.Capabilities reports to the NFS server: the
// whole filesystem is either read-only or read-write, depending on whether
// the underlying accessor advertises write support (spec §4.6).
type Capabilities int

const (
	ReadOnly Capabilities = iota
	ReadWrite
)

// Attr is the fixed-shape fattr3-equivalent record spec §3 describes: mode
// is static (0o755 file / 0o777 dir), uid/gid are static configuration
// values, nlink is always 0, and atime=mtime=ctime all come from the
// backend's last-modified timestamp (seconds only).
type Attr struct {
	Type    FileType
	Mode    uint32
	UID     uint32
	GID     uint32
	NLink   uint32
	Size    uint64
	ModTime time.Time
	FileID  uint64
}

func attrFor(isDir bool, size uint64, modTime time.Time, uid, gid uint32, fileID uint64) Attr {
	a := Attr{
		Size:    size,
		ModTime: modTime.Truncate(time.Second),
		UID:     uid,
		GID:     gid,
		NLink:   0,
		FileID:  fileID,
	}
	if isDir {
		a.Type = FileTypeDir
		a.Mode = 0o777
	} else {
		a.Type = FileTypeRegular
		a.Mode = 0o755
	}
	return a
}
