package search

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/troop-events/internal/roster"
)

// Match is a scored identity.
type Match struct {
	Identity roster.Identity `json:"identity"`
	Score    float64         `json:"score"`
}

// Matcher ranks identities against free-text queries.
type Matcher struct {
	cfg Config
}

// NewMatcher creates a Matcher with the given thresholds.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's thresholds.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Score computes the score of one identity for a query. The result is 0
// when no candidate clears MinScore and no name contains the query.
func (m *Matcher) Score(query string, id roster.Identity) float64 {
	q := normalize(query)
	if q == "" {
		return 0
	}

	candidates := []struct {
		name   string
		weight float64
	}{
		{id.FullName, 1.0},
		{id.FirstName, m.cfg.PartWeight},
		{id.LastName, m.cfg.PartWeight},
	}

	score := 0.0
	for _, c := range candidates {
		sim := m.cfg.Similarity(q, c.name)
		if sim > m.cfg.MinScore {
			score = max(score, sim*c.weight)
		}
	}

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.name), q) {
			score = max(score, m.cfg.SubstringFloor)
			break
		}
	}

	return score
}

// Rank scores every identity and returns those scoring above MinScore,
// highest first. Identities with equal scores keep their corpus order.
// A blank query matches nothing, even though it is a substring of every
// name and would otherwise earn each identity the SubstringFloor.
func (m *Matcher) Rank(query string, corpus []roster.Identity) []Match {
	matches := make([]Match, 0)
	if normalize(query) == "" {
		return matches
	}

	for _, id := range corpus {
		score := m.Score(query, id)
		if score > m.cfg.MinScore {
			matches = append(matches, Match{Identity: id, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Search returns the ranked identities without scores.
func (m *Matcher) Search(query string, corpus []roster.Identity) []roster.Identity {
	matches := m.Rank(query, corpus)
	out := make([]roster.Identity, len(matches))
	for i, match := range matches {
		out[i] = match.Identity
	}
	return out
}

// Search ranks corpus against query with the default thresholds.
func Search(query string, corpus []roster.Identity) []roster.Identity {
	return NewMatcher(DefaultConfig()).Search(query, corpus)
}
