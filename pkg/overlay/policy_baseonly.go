package overlay

import "github.com/ovlmount/ovlmount/pkg/accessor"

// BaseOnlyPolicy routes every operation to the base backend; the overlay is
// never consulted. Grounded on spec §4.3's BaseOnly definition.
type BaseOnlyPolicy struct{}

func (BaseOnlyPolicy) Name() string { return "base_only" }

func (BaseOnlyPolicy) Owner(path string, op Operation, baseInfo, overlayInfo accessor.Info) Source {
	return Base
}

func (BaseOnlyPolicy) Capability(baseInfo, overlayInfo accessor.Info) accessor.Capability {
	return baseInfo.Capabilities
}

func (BaseOnlyPolicy) Merge(basePage, overlayPage []accessor.Entry) []accessor.Entry {
	return basePage
}
