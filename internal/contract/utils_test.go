package contract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestColorRenormPassthrough leaves text untouched when colors are off.
func TestColorRenormPassthrough(t *testing.T) {
	assert.Equal(t, "1.0000", ColorRenorm("1.0000", 1.0, false))
	assert.Equal(t, "NaN", ColorRenorm("NaN", math.NaN(), false))
	assert.Equal(t, "2.5000", ColorRenorm("2.5000", 2.5, false))
}

// TestTruncateName shortens only names that exceed the width.
func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		width    int
		expected string
	}{
		{name: "short name untouched", in: "ttbb", width: 10, expected: "ttbb"},
		{name: "exact width untouched", in: "ttbb", width: 4, expected: "ttbb"},
		{name: "long name truncated", in: "ttH_had_ht_reweight", width: 10, expected: "ttH_had..."},
		{name: "tiny width untouched", in: "ttbb", width: 2, expected: "ttbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.in, tt.width))
		})
	}
}
