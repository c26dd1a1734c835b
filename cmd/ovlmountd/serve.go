package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ovlmount/ovlmount/internal/logger"
	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/config"
	"github.com/ovlmount/ovlmount/pkg/controlplane"
	"github.com/ovlmount/ovlmount/pkg/controlplane/api"
	ctlgraphql "github.com/ovlmount/ovlmount/pkg/controlplane/graphql"
	"github.com/ovlmount/ovlmount/pkg/metrics"
	"github.com/ovlmount/ovlmount/pkg/mount"
	"github.com/ovlmount/ovlmount/pkg/overlay"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	var doMount bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the NFS server over the composed (base, overlay) backend and mount it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), doMount)
		},
	}
	cmd.Flags().BoolVar(&doMount, "mount", true, "run the platform mount command once the listener is up")
	return cmd
}

func runServe(ctx context.Context, doMount bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := controlplane.NewRegistry()

	base, err := controlplane.ConstructBackend(ctx, cfg.Base.Scheme, cfg.Base.Params)
	if err != nil {
		return fmt.Errorf("construct base backend: %w", err)
	}
	overlayBackend, err := controlplane.ConstructBackend(ctx, cfg.Overlay.Scheme, cfg.Overlay.Params)
	if err != nil {
		return fmt.Errorf("construct overlay backend: %w", err)
	}
	policy, err := overlay.NewPolicy(config.ResolvePolicy(cfg.Policy))
	if err != nil {
		return fmt.Errorf("resolve policy: %w", err)
	}
	composed := overlay.New(base, overlayBackend, policy)

	metrics.Enable(prometheus.NewRegistry())

	id, err := registry.RegisterService(ctx, controlplane.RegisterOptions{
		BindAddr:   cfg.BindAddr,
		MountPoint: cfg.MountPoint,
		Scheme:     "custom:overlay",
		Root:       "/",
		Name:       "overlay",
		UID:        cfg.UID,
		GID:        cfg.GID,
	}, composed)
	if err != nil {
		return fmt.Errorf("register nfs service: %w", err)
	}
	logger.Info("nfs service registered", logger.ServiceID(id.String()), logger.Policy(policy.Name()))

	if doMount {
		addr, _ := registry.LocalAddr(id)
		tcpAddr, ok := addr.(*net.TCPAddr)
		if !ok {
			return fmt.Errorf("unexpected listener address type %T", addr)
		}
		if err := mount.Mount(ctx, mount.Options{
			MountPoint: cfg.MountPoint,
			Host:       "127.0.0.1",
			Port:       tcpAddr.Port,
			ReadOnly:   !composed.Info().Capabilities.Has(accessor.CapWrite),
		}); err != nil {
			_, _ = registry.Unregister(id)
			return fmt.Errorf("mount: %w", err)
		}
		defer func() {
			if err := mount.Umount(context.Background(), mount.Options{MountPoint: cfg.MountPoint}); err != nil {
				logger.Error("umount failed", logger.Err(err))
			}
		}()
	}

	var httpServer *http.Server
	if cfg.ControlPlane.Enabled {
		schema, err := ctlgraphql.NewSchema(ctlgraphql.Config{
			Registry: registry,
			BindHost: "127.0.0.1",
			UID:      cfg.UID,
			GID:      cfg.GID,
		})
		if err != nil {
			return fmt.Errorf("build graphql schema: %w", err)
		}
		httpServer = &http.Server{Addr: cfg.ControlPlane.HTTPAddr, Handler: api.NewRouter(schema)}
		go func() {
			logger.Info("control-plane http listening", logger.BindAddr(cfg.ControlPlane.HTTPAddr))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("control-plane http server exited", logger.Err(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
	_, err = registry.Unregister(id)
	return err
}
