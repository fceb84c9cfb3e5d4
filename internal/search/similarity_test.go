package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"empty vs non-empty", "x", "", 0.0},
		{"non-empty vs empty", "", "x", 0.0},
		{"identical", "Jane Doe", "Jane Doe", 1.0},
		{"case and whitespace ignored", " JANE doe ", "jane DOE", 1.0},
		{"substring", "jane", "Jane Doe", 0.8},
		{"superstring", "Jane Doe", "doe", 0.8},
		{"edit distance", "kitten", "sitting", 1.0 - 3.0/7.0},
		{"one edit", "jon sith", "jon smith", 1.0 - 1.0/9.0},
		{"nothing in common", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityBounds(t *testing.T) {
	inputs := []string{"", "a", "Jane Doe", "jane", "Jöhn Smïth", "zzzzzzzzzzzz", "  ", "John Smyth"}
	for _, a := range inputs {
		assert.Equal(t, 1.0, Similarity(a, a), "self similarity of %q", a)
		for _, b := range inputs {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", a, b)
			assert.LessOrEqual(t, s, 1.0, "%q vs %q", a, b)
		}
	}
}

func TestConfigSubstringScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubstringScore = 0.5
	assert.Equal(t, 0.5, cfg.Similarity("jane", "jane doe"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.PartWeight = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinScore = -0.1
	assert.Error(t, bad.Validate())
}
