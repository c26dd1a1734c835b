package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicyBuiltins(t *testing.T) {
	cases := map[string]Policy{
		"base-only":     BaseOnlyPolicy{},
		"union":         UnionPolicy{},
		"special-files": SpecialFilesPolicy{},
		"naive":         NaivePolicy{},
	}
	for name, want := range cases {
		p, err := NewPolicy(name)
		require.NoError(t, err)
		assert.Equal(t, want.Name(), p.Name())
	}
}

func TestNewPolicyUnknown(t *testing.T) {
	_, err := NewPolicy("nonexistent")
	assert.Error(t, err)
}
