// Package ovlerrors defines the typed error taxonomy shared across the
// overlay, NFS adapter, mount driver, and control-plane packages.
package ovlerrors

import "fmt"

// MountFailure indicates the platform mount helper exited non-zero or could
// not be spawned.
type MountFailure struct {
	MountPoint string
	Reason     string
}

func (e *MountFailure) Error() string {
	return fmt.Sprintf("mount %s: %s", e.MountPoint, e.Reason)
}

// UnsupportedScheme indicates a backend URI used a scheme with no registered
// accessor constructor.
type UnsupportedScheme struct {
	Name string
}

func (e *UnsupportedScheme) Error() string {
	return fmt.Sprintf("unsupported backend scheme %q", e.Name)
}

// AlreadyMounted indicates a mount point already has a running service
// registered against it.
type AlreadyMounted struct {
	MountPoint string
}

func (e *AlreadyMounted) Error() string {
	return fmt.Sprintf("%s is already mounted", e.MountPoint)
}

// BackendConstruction indicates a storage accessor could not be constructed
// from its configuration (bad credentials, unreachable endpoint, ...).
type BackendConstruction struct {
	Cause error
}

func (e *BackendConstruction) Error() string {
	return fmt.Sprintf("backend construction failed: %v", e.Cause)
}

func (e *BackendConstruction) Unwrap() error { return e.Cause }

// ServiceNotFound indicates a control-plane lookup by id found no running
// service.
type ServiceNotFound struct {
	ID string
}

func (e *ServiceNotFound) Error() string {
	return fmt.Sprintf("service %s not found", e.ID)
}

// IO wraps a storage-backend I/O error with the path that triggered it.
type IO struct {
	Path  string
	Cause error
}

func (e *IO) Error() string {
	return fmt.Sprintf("io error on %s: %v", e.Path, e.Cause)
}

func (e *IO) Unwrap() error { return e.Cause }

// InvalidConfig indicates a configuration value failed validation.
type InvalidConfig struct {
	Field  string
	Reason string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Reason)
}

// NotExist and NotSupported are sentinel-style errors accessors and the
// overlay compare against with errors.Is, mirroring the controlplane
// models' flat var block style.
var (
	ErrNotExist     = fmt.Errorf("path does not exist")
	ErrNotSupported = fmt.Errorf("operation not supported by this policy or backend")
	ErrIsDir        = fmt.Errorf("path is a directory")
	ErrNotDir       = fmt.Errorf("path is not a directory")
	ErrExist        = fmt.Errorf("path already exists")
	ErrClosed       = fmt.Errorf("stream already closed")
	ErrIDCollision  = fmt.Errorf("file id collision on distinct paths")
)
