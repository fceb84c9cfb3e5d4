package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Config holds the scoring thresholds.
type Config struct {
	// MinScore is the exclusive lower bound a candidate similarity, and an
	// identity's final score, must exceed.
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// SubstringScore is the similarity of two strings where one contains
	// the other.
	SubstringScore float64 `json:"substring_score" yaml:"substring_score"`

	// SubstringFloor is the minimum score of an identity whose full, first
	// or last name contains the query verbatim.
	SubstringFloor float64 `json:"substring_floor" yaml:"substring_floor"`

	// PartWeight scales first-name and last-name similarities.
	PartWeight float64 `json:"part_weight" yaml:"part_weight"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinScore:       0.3,
		SubstringScore: 0.8,
		SubstringFloor: 0.7,
		PartWeight:     0.9,
	}
}

// Validate checks that every threshold lies in [0, 1].
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"min_score":       c.MinScore,
		"substring_score": c.SubstringScore,
		"substring_floor": c.SubstringFloor,
		"part_weight":     c.PartWeight,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("search %s must be between 0 and 1, got %v", name, v)
		}
	}
	return nil
}

// Similarity scores a against b in [0, 1] with the default thresholds.
func Similarity(a, b string) float64 {
	return DefaultConfig().Similarity(a, b)
}

// Similarity scores a against b in [0, 1], ignoring case and surrounding
// whitespace. Equal strings (including two empty ones) score 1 and an empty
// string against a non-empty one scores 0.
func (c Config) Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return c.SubstringScore
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
