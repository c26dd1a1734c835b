package overlay

import (
	"context"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/metrics"
)

func recordOwnerDecision(policy Policy, src Source) {
	if m := metrics.Get(); m != nil {
		m.OwnerDecisions.WithLabelValues(policy.Name(), src.String()).Inc()
	}
}

// Accessor implements accessor.Backend over a (base, overlay, policy)
// triple, per spec §4.4. It never mutates base or overlay through anything
// but their own Backend methods.
type Accessor struct {
	base    accessor.Backend
	overlay accessor.Backend
	policy  Policy
}

// New composes base, overlay and policy into a single accessor.Backend.
func New(base, overlay accessor.Backend, policy Policy) *Accessor {
	return &Accessor{base: base, overlay: overlay, policy: policy}
}

func (a *Accessor) backendFor(src Source) accessor.Backend {
	if src == Overlay {
		return a.overlay
	}
	return a.base
}

func (a *Accessor) Info() accessor.Info {
	return accessor.Info{
		Scheme:       "custom:overlay",
		Root:         "/",
		Name:         "overlay",
		Capabilities: a.policy.Capability(a.base.Info(), a.overlay.Info()),
	}
}

func (a *Accessor) Stat(ctx context.Context, path string) (accessor.Metadata, error) {
	src := a.policy.Owner(path, OpStat, a.base.Info(), a.overlay.Info())
	recordOwnerDecision(a.policy, src)
	return a.backendFor(src).Stat(ctx, path)
}

func (a *Accessor) Read(ctx context.Context, path string, rng accessor.Range) (accessor.Metadata, accessor.Reader, error) {
	src := a.policy.Owner(path, OpRead, a.base.Info(), a.overlay.Info())
	recordOwnerDecision(a.policy, src)
	meta, r, err := a.backendFor(src).Read(ctx, path, rng)
	if err != nil {
		return accessor.Metadata{}, nil, err
	}
	return meta, NewTaggedReader(src, r), nil
}

func (a *Accessor) Write(ctx context.Context, path string, opts accessor.WriteOptions) (accessor.Writer, error) {
	src := a.policy.Owner(path, OpWrite, a.base.Info(), a.overlay.Info())
	recordOwnerDecision(a.policy, src)
	w, err := a.backendFor(src).Write(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return NewTaggedWriter(src, w), nil
}

func (a *Accessor) Append(ctx context.Context, path string, opts accessor.AppendOptions) (accessor.Appender, error) {
	src := a.policy.Owner(path, OpAppend, a.base.Info(), a.overlay.Info())
	recordOwnerDecision(a.policy, src)
	ap, err := a.backendFor(src).Append(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return NewTaggedAppender(src, ap), nil
}

func (a *Accessor) CreateDir(ctx context.Context, path string) error {
	src := a.policy.Owner(path, OpCreateDir, a.base.Info(), a.overlay.Info())
	recordOwnerDecision(a.policy, src)
	return a.backendFor(src).CreateDir(ctx, path)
}

// List opens a pager on each backend and returns a CompositePager that
// merges pages via the policy, per spec §4.4. If one backend fails to open
// its pager the composite fails outright.
func (a *Accessor) List(ctx context.Context, path string) (accessor.Pager, error) {
	basePager, err := a.base.List(ctx, path)
	if err != nil {
		return nil, err
	}
	overlayPager, err := a.overlay.List(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewCompositePager(a.policy, basePager, overlayPager), nil
}
