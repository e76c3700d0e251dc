package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/vartable/pkg/types"
)

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want types.SourceType
		ok   bool
	}{
		{"variant", types.SourceTypeVariant, true},
		{"Variants", types.SourceTypeVariant, true},
		{" validation ", types.SourceTypeValidation, true},
		{"validations", types.SourceTypeValidation, true},
		{"bogus", types.SourceType("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := types.ParseSourceType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceTypeCapabilities(t *testing.T) {
	assert.True(t, types.SourceTypeVariant.HasAnnotations())
	assert.False(t, types.SourceTypeVariant.HasValidator())
	assert.True(t, types.SourceTypeValidation.HasValidator())
	assert.False(t, types.SourceTypeValidation.HasAnnotations())
	assert.False(t, types.SourceType("other").IsValid())
}
