package overlay

import "fmt"

// NewPolicy constructs one of the built-in policies by name, per spec §4.3
// and the supplemented naive policy from SPEC_FULL.md.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case "base-only":
		return BaseOnlyPolicy{}, nil
	case "union":
		return UnionPolicy{}, nil
	case "special-files":
		return SpecialFilesPolicy{}, nil
	case "naive":
		return NaivePolicy{}, nil
	default:
		return nil, fmt.Errorf("overlay: unknown policy %q", name)
	}
}
