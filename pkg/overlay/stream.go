package overlay

import (
	"context"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/metrics"
)

// TaggedReader is the {Base(R), Overlay(R)} tagged sum of spec §4.2: once
// opened against a backend, every call routes to that same inner reader for
// the stream's lifetime. The wrapper adds routing only — no buffering, no
// retry.
type TaggedReader struct {
	Source Source
	inner  accessor.Reader
}

func NewTaggedReader(src Source, inner accessor.Reader) *TaggedReader {
	return &TaggedReader{Source: src, inner: inner}
}

func (r *TaggedReader) Read(p []byte) (int, error)      { return r.inner.Read(p) }
func (r *TaggedReader) Seek(o int64, w int) (int64, error) { return r.inner.Seek(o, w) }
func (r *TaggedReader) Close() error                     { return r.inner.Close() }

// TaggedWriter is the {Base(W), Overlay(W)} tagged sum.
type TaggedWriter struct {
	Source Source
	inner  accessor.Writer
}

func NewTaggedWriter(src Source, inner accessor.Writer) *TaggedWriter {
	return &TaggedWriter{Source: src, inner: inner}
}

func (w *TaggedWriter) Write(p []byte) (int, error) { return w.inner.Write(p) }
func (w *TaggedWriter) Abort() error                 { return w.inner.Abort() }
func (w *TaggedWriter) Close() error                 { return w.inner.Close() }

// TaggedAppender is the {Base(A), Overlay(A)} tagged sum.
type TaggedAppender struct {
	Source Source
	inner  accessor.Appender
}

func NewTaggedAppender(src Source, inner accessor.Appender) *TaggedAppender {
	return &TaggedAppender{Source: src, inner: inner}
}

func (a *TaggedAppender) Write(p []byte) (int, error) { return a.inner.Write(p) }
func (a *TaggedAppender) Close() error                 { return a.inner.Close() }

// CompositePager is the directory-listing pager produced by
// OverlayAccessor.List: it drains a page from each backend's pager in fixed
// order (base, then overlay) and asks the policy to merge them, per spec
// §4.4/§5 ("composite pager awaits base and overlay in that fixed order per
// page to keep output deterministic").
type CompositePager struct {
	policy       Policy
	basePager    accessor.Pager
	overlayPager accessor.Pager
	baseDone     bool
	overlayDone  bool
}

func NewCompositePager(policy Policy, basePager, overlayPager accessor.Pager) *CompositePager {
	return &CompositePager{policy: policy, basePager: basePager, overlayPager: overlayPager}
}

// Next awaits base's next page, then overlay's, in that fixed order, and
// returns the policy's merge of the two. Pagination terminates once both
// underlying pagers have returned empty pages.
func (p *CompositePager) Next(ctx context.Context) ([]accessor.Entry, error) {
	if p.baseDone && p.overlayDone {
		return nil, nil
	}

	var basePage, overlayPage []accessor.Entry
	var err error

	if !p.baseDone {
		basePage, err = p.basePager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if len(basePage) == 0 {
			p.baseDone = true
		}
	}

	if !p.overlayDone {
		overlayPage, err = p.overlayPager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if len(overlayPage) == 0 {
			p.overlayDone = true
		}
	}

	merged := p.policy.Merge(basePage, overlayPage)
	if len(merged) == 0 && p.baseDone && p.overlayDone {
		return nil, nil
	}
	if m := metrics.Get(); m != nil {
		m.ReaddirPages.Inc()
	}
	return merged, nil
}
