package controlplane

import (
	"context"
	"net"

	nfs "github.com/willscott/go-nfs"
	"github.com/google/uuid"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/idmap"
	"github.com/ovlmount/ovlmount/pkg/nfsfs"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// RegisterOptions configures a new NFS service.
type RegisterOptions struct {
	BindAddr   string
	MountPoint string
	Scheme     string
	Root       string
	Name       string
	UID, GID   uint32
}

// RegisterService constructs an NFS filesystem adapter over backend, starts the
// NFS TCP listener as a background, cancellation-aware accept loop, and
// records it in the registry (spec §4.8).
func (r *Registry) RegisterService(ctx context.Context, opts RegisterOptions, backend accessor.Backend) (uuid.UUID, error) {
	if r.IsMounted(opts.MountPoint) {
		return uuid.Nil, &ovlerrors.AlreadyMounted{MountPoint: opts.MountPoint}
	}

	ln, err := net.Listen("tcp", opts.BindAddr)
	if err != nil {
		return uuid.Nil, &ovlerrors.BackendConstruction{Cause: err}
	}

	ids := idmap.New()
	adapter := nfsfs.New(backend, ids, opts.UID, opts.GID)
	fs := nfsfs.NewFS(adapter)
	readOnly := adapter.Capabilities() == nfsfs.ReadOnly
	handler := nfsfs.NewHandler(fs, ids, readOnly)

	svcCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		go func() {
			<-svcCtx.Done()
			_ = ln.Close()
		}()
		if err := nfs.Serve(ln, handler); err != nil && svcCtx.Err() == nil {
			logger.ErrorCtx(svcCtx, "nfs accept loop exited", logger.Err(err))
		}
	}()

	fsRecord := MountedFs{
		MountPoint: opts.MountPoint,
		Scheme:     backend.Info().Scheme,
		Root:       opts.Root,
		Name:       opts.Name,
	}
	id := r.Register(fsRecord, ln, cancel, done)
	return id, nil
}
