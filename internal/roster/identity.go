package roster

import (
	"strings"

	"github.com/pfrederiksen/troop-events/internal/event"
)

// Identity is a deduplicated person.
type Identity struct {
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Key       string `json:"key"`
}

// Roster holds the scout and adult identities of a catalog.
type Roster struct {
	Scouts []Identity `json:"scouts"`
	Adults []Identity `json:"adults"`
}

// NewIdentity splits a full name on whitespace. The first token is the first
// name; the remaining tokens, joined by single spaces, form the last name.
func NewIdentity(name string) Identity {
	full := strings.TrimSpace(name)
	id := Identity{
		FullName: full,
		Key:      event.NormalizeName(full),
	}

	parts := strings.Fields(full)
	if len(parts) > 0 {
		id.FirstName = parts[0]
		id.LastName = strings.Join(parts[1:], " ")
	}
	return id
}

// Extract walks future then past events and returns the scout and adult
// identities in first-seen order.
func Extract(future, past []event.Record) Roster {
	return Roster{
		Scouts: collect(future, past, func(r event.Record) []string { return r.Scouts }),
		Adults: collect(future, past, func(r event.Record) []string { return r.Adults }),
	}
}

func collect(future, past []event.Record, names func(event.Record) []string) []Identity {
	seen := make(map[string]bool)
	out := make([]Identity, 0)

	for _, list := range [][]event.Record{future, past} {
		for _, r := range list {
			for _, name := range names(r) {
				key := event.NormalizeName(name)
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, NewIdentity(name))
			}
		}
	}
	return out
}

// Find returns the identity whose key equals the normalized name.
func Find(corpus []Identity, name string) (Identity, bool) {
	key := event.NormalizeName(name)
	for _, id := range corpus {
		if id.Key == key {
			return id, true
		}
	}
	return Identity{}, false
}
