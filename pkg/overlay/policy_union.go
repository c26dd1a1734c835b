package overlay

import "github.com/ovlmount/ovlmount/pkg/accessor"

// UnionPolicy routes single-backend operations (stat/read/write/append/
// create_dir) to the base — writes land in base, per spec §4.3 — but merges
// directory pages, preferring the overlay's entries by name when both
// backends list the same name.
type UnionPolicy struct{}

func (UnionPolicy) Name() string { return "union" }

func (UnionPolicy) Owner(path string, op Operation, baseInfo, overlayInfo accessor.Info) Source {
	return Base
}

func (UnionPolicy) Capability(baseInfo, overlayInfo accessor.Info) accessor.Capability {
	return baseInfo.Capabilities
}

func (UnionPolicy) Merge(basePage, overlayPage []accessor.Entry) []accessor.Entry {
	if len(overlayPage) == 0 {
		return basePage
	}
	return dedupeByName(overlayPage, basePage)
}
