package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100.0, Ratio("acme", "acme"))
	assert.Equal(t, 0.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("acme", ""))
	assert.Equal(t, 0.0, Ratio("", "acme"))

	// One substitution across 4 runes.
	assert.InDelta(t, 75.0, Ratio("acme", "acne"), 0.01)
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{
			name: "identical",
			a:    "acme widgets",
			b:    "acme widgets",
			min:  100, max: 100,
		},
		{
			name: "token reordering",
			a:    "widgets acme",
			b:    "acme widgets",
			min:  100, max: 100,
		},
		{
			name: "subset tokens",
			a:    "acme",
			b:    "acme widgets international",
			min:  100, max: 100,
		},
		{
			name: "shared plus differing tokens",
			a:    "acme industries",
			b:    "acme industrial",
			min:  80, max: 95,
		},
		{
			name: "disjoint token sets",
			a:    "northern plumbing",
			b:    "acme widgets",
			min:  0, max: 40,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			min:  0, max: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := TokenSetRatio(tt.a, tt.b)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
			// Symmetric by construction.
			assert.InDelta(t, score, TokenSetRatio(tt.b, tt.a), 0.01)
		})
	}
}

func TestTokenSetRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"acme", "acme widgets"},
		{"a b c", "c b a"},
		{"x", "completely different words"},
		{"", "something"},
	}
	for _, p := range pairs {
		score := TokenSetRatio(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}
