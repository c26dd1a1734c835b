package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging across the overlay, NFS adapter,
// mount driver, and control plane packages. Use these keys consistently so
// log lines can be queried and aggregated the same way regardless of which
// package emitted them.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// ========================================================================
	// Protocol & Operation
	// ========================================================================
	KeyProcedure = "procedure" // NFS procedure name: LOOKUP, READ, WRITE, READDIR, etc.
	KeyStatus    = "status"    // nfsstat3 code returned to the client

	// ========================================================================
	// Path / id translation
	// ========================================================================
	KeyPath       = "path"
	KeyParentPath = "parent_path"
	KeyFilename   = "filename"
	KeyFileID     = "file_id" // 64-bit NFS file identifier
	KeyType       = "type"    // file, dir
	KeySize       = "size"

	// ========================================================================
	// I/O
	// ========================================================================
	KeyOffset       = "offset"
	KeyCount        = "count"
	KeyBytesRead    = "bytes_read"
	KeyBytesWritten = "bytes_written"
	KeyEOF          = "eof"

	// ========================================================================
	// Backend / policy
	// ========================================================================
	KeyBackend = "backend" // "base" or "overlay"
	KeyScheme  = "scheme"  // backend scheme: memory, file, s3, sftp, custom:overlay
	KeyPolicy  = "policy"  // policy name: base_only, union, special_files, naive

	// ========================================================================
	// Client identification
	// ========================================================================
	KeyClientIP = "client_ip"

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"

	// ========================================================================
	// Directory listing
	// ========================================================================
	KeyEntries    = "entries"
	KeyMaxEntries = "max_entries"
	KeyStartAfter = "start_after"

	// ========================================================================
	// Mount driver / control plane
	// ========================================================================
	KeyMountPoint = "mount_point"
	KeyServiceID  = "service_id"
	KeyBindAddr   = "bind_addr"
)

// ----------------------------------------------------------------------------
// Field constructors for type safety
// ----------------------------------------------------------------------------

func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }
func SpanID(id string) slog.Attr  { return slog.String(KeySpanID, id) }

func Procedure(name string) slog.Attr { return slog.String(KeyProcedure, name) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }

func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func ParentPath(p string) slog.Attr { return slog.String(KeyParentPath, p) }
func Filename(n string) slog.Attr   { return slog.String(KeyFilename, n) }
func FileID(id uint64) slog.Attr    { return slog.Uint64(KeyFileID, id) }
func Type(t string) slog.Attr       { return slog.String(KeyType, t) }
func Size(n uint64) slog.Attr       { return slog.Uint64(KeySize, n) }

func Offset(n uint64) slog.Attr       { return slog.Uint64(KeyOffset, n) }
func Count(n uint32) slog.Attr        { return slog.Uint64(KeyCount, uint64(n)) }
func BytesRead(n int) slog.Attr       { return slog.Int(KeyBytesRead, n) }
func BytesWritten(n int) slog.Attr    { return slog.Int(KeyBytesWritten, n) }
func EOF(eof bool) slog.Attr          { return slog.Bool(KeyEOF, eof) }
func Backend(name string) slog.Attr   { return slog.String(KeyBackend, name) }
func Scheme(scheme string) slog.Attr  { return slog.String(KeyScheme, scheme) }
func Policy(name string) slog.Attr    { return slog.String(KeyPolicy, name) }
func ClientIP(ip string) slog.Attr    { return slog.String(KeyClientIP, ip) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func MaxEntries(n int) slog.Attr      { return slog.Int(KeyMaxEntries, n) }
func StartAfter(id uint64) slog.Attr  { return slog.Uint64(KeyStartAfter, id) }
func MountPoint(p string) slog.Attr   { return slog.String(KeyMountPoint, p) }
func ServiceID(id string) slog.Attr   { return slog.String(KeyServiceID, id) }
func BindAddr(addr string) slog.Attr  { return slog.String(KeyBindAddr, addr) }

// Err returns a slog.Attr wrapping an error using fmt.Sprint so nil errors
// render as the empty string instead of "<nil>".
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, fmt.Sprint(err))
}
