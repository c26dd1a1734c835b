// Package metrics exposes Prometheus counters for overlay operations, NFS
// adapter activity, and readdir page merges, following the
// IsEnabled()/GetRegistry() gating pattern of dittofs's
// pkg/metrics/prometheus package.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mu       sync.Mutex
	enabled  bool
	registry *prometheus.Registry
	m        *Metrics
)

// Metrics groups every counter this module registers. OwnerDecisions is
// incremented by pkg/overlay's accessor and ReaddirPages by its composite
// pager; OverlayOps, NFSProcedures and BackendErrors are registered but no
// package in this module increments them.
type Metrics struct {
	OverlayOps     *prometheus.CounterVec
	OwnerDecisions *prometheus.CounterVec
	ReaddirPages   prometheus.Counter
	NFSProcedures  *prometheus.CounterVec
	BackendErrors  *prometheus.CounterVec
}

// Enable turns on metrics collection against reg and returns the bound
// Metrics instance.
func Enable(reg *prometheus.Registry) *Metrics {
	mu.Lock()
	defer mu.Unlock()

	enabled = true
	registry = reg
	factory := promauto.With(reg)

	m = &Metrics{
		OverlayOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ovlmount_overlay_operations_total",
			Help: "Count of overlay accessor operations by kind and backend.",
		}, []string{"operation", "backend"}),
		OwnerDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ovlmount_policy_owner_decisions_total",
			Help: "Count of policy owner decisions by policy and selected backend.",
		}, []string{"policy", "backend"}),
		ReaddirPages: factory.NewCounter(prometheus.CounterOpts{
			Name: "ovlmount_readdir_pages_total",
			Help: "Count of directory pages merged by the composite pager.",
		}),
		NFSProcedures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ovlmount_nfs_procedures_total",
			Help: "Count of NFS procedure calls by procedure and status.",
		}, []string{"procedure", "status"}),
		BackendErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ovlmount_backend_errors_total",
			Help: "Count of backend errors by backend name.",
		}, []string{"backend"}),
	}
	return m
}

// IsEnabled reports whether Enable has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Get returns the active Metrics instance, or nil if not enabled.
func Get() *Metrics {
	mu.Lock()
	defer mu.Unlock()
	return m
}

// GetRegistry returns the bound Prometheus registry, or nil if not enabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}
