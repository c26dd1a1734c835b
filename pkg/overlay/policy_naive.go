package overlay

import "github.com/ovlmount/ovlmount/pkg/accessor"

// NaivePolicy prefers the overlay for every single-backend operation,
// falling back to base only at merge time. It supplements the distilled
// spec's three policies with the original source's default policy
// (overlay/policy/naive.rs), kept here as the "overlay wins" counterpart to
// BaseOnlyPolicy.
type NaivePolicy struct{}

func (NaivePolicy) Name() string { return "naive" }

func (NaivePolicy) Owner(path string, op Operation, baseInfo, overlayInfo accessor.Info) Source {
	return Overlay
}

func (NaivePolicy) Capability(baseInfo, overlayInfo accessor.Info) accessor.Capability {
	return baseInfo.Capabilities | overlayInfo.Capabilities
}

func (NaivePolicy) Merge(basePage, overlayPage []accessor.Entry) []accessor.Entry {
	if len(overlayPage) == 0 {
		return basePage
	}
	return dedupeByName(overlayPage, basePage)
}
