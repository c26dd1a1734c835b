// Package controlplane implements the registry of running NFS services
// (spec §4.8): register/unregister/local_addr/file_systems, keyed by uuid,
// grounded on dittofs's pkg/controlplane/runtime registry shape and the
// original opendal-mount source's nfs.rs NFSServer.
package controlplane

import (
	"context"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// MountedFs is the record exposed to the GraphQL API (spec §3, §6).
type MountedFs struct {
	ID         uuid.UUID
	MountPoint string
	Scheme     string
	Root       string
	Name       string
}

// Service is a running NFS listener the registry tracks.
type Service struct {
	ID       uuid.UUID
	Fs       MountedFs
	Listener net.Listener
	cancel   context.CancelFunc
	done     chan struct{}
}

// Stop cancels the service's context and waits for its accept loop to
// return.
func (s *Service) Stop() {
	s.cancel()
	<-s.done
}

// Registry is the keyed map of running NFS services, guarded by a single
// mutex held only long enough to insert or remove (spec §5).
type Registry struct {
	mu       sync.Mutex
	services map[uuid.UUID]*Service
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: map[uuid.UUID]*Service{}}
}

// Register records a newly started service under a fresh uuid.
func (r *Registry) Register(fs MountedFs, ln net.Listener, cancel context.CancelFunc, done chan struct{}) uuid.UUID {
	id := uuid.New()
	fs.ID = id
	svc := &Service{ID: id, Fs: fs, Listener: ln, cancel: cancel, done: done}

	r.mu.Lock()
	r.services[id] = svc
	r.mu.Unlock()

	logger.Info("registered nfs service", logger.ServiceID(id.String()), logger.MountPoint(fs.MountPoint))
	return id
}

// Unregister removes id, stops its service, and waits for completion. It
// reports whether a service was found.
func (r *Registry) Unregister(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	svc, ok := r.services[id]
	if ok {
		delete(r.services, id)
	}
	r.mu.Unlock()

	if !ok {
		return false, &ovlerrors.ServiceNotFound{ID: id.String()}
	}
	svc.Stop()
	logger.Info("unregistered nfs service", logger.ServiceID(id.String()))
	return true, nil
}

// LocalAddr returns the bound address of a running service, if any.
func (r *Registry) LocalAddr(id uuid.UUID) (net.Addr, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, false
	}
	return svc.Listener.Addr(), true
}

// FileSystems lists the ids of all running services.
func (r *Registry) FileSystems() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	return ids
}

// Get returns the MountedFs record for id.
func (r *Registry) Get(id uuid.UUID) (MountedFs, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return MountedFs{}, false
	}
	return svc.Fs, true
}

// List returns every registered MountedFs record.
func (r *Registry) List() []MountedFs {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MountedFs, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc.Fs)
	}
	return out
}

// IsMounted reports whether mountPoint is already registered, used to
// detect the AlreadyMounted error at mount time.
func (r *Registry) IsMounted(mountPoint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, svc := range r.services {
		if svc.Fs.MountPoint == mountPoint {
			return true
		}
	}
	return false
}
