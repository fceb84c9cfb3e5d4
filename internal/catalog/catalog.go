package catalog

import (
	"time"

	"github.com/pfrederiksen/troop-events/internal/event"
	"github.com/pfrederiksen/troop-events/internal/roster"
	"github.com/pfrederiksen/troop-events/internal/search"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

// Catalog is the immutable result of one ingestion pass.
type Catalog struct {
	PassID  string    `json:"pass_id,omitempty"`
	BuiltAt time.Time `json:"built_at"`

	Future []event.Record    `json:"future"`
	Past   []event.Record    `json:"past"`
	Scouts []roster.Identity `json:"scouts"`
	Adults []roster.Identity `json:"adults"`

	Rows    int `json:"rows"`
	Signups int `json:"signups"`
}

// Empty returns a catalog with no events and no people.
func Empty() *Catalog {
	return &Catalog{
		Future: []event.Record{},
		Past:   []event.Record{},
		Scouts: []roster.Identity{},
		Adults: []roster.Identity{},
	}
}

// Build runs extraction, aggregation, classification and identity extraction
// over p. today decides the future/past split. A nil or empty payload yields
// an empty catalog.
func Build(p *sheet.Payload, today time.Time) *Catalog {
	signups := event.ExtractSignups(p)
	records := event.Aggregate(signups)
	future, past := event.Classify(records, today)
	r := roster.Extract(future, past)

	return &Catalog{
		Future:  future,
		Past:    past,
		Scouts:  r.Scouts,
		Adults:  r.Adults,
		Rows:    p.Len(),
		Signups: len(signups),
	}
}

// Events returns future then past records in a new slice.
func (c *Catalog) Events() []event.Record {
	out := make([]event.Record, 0, len(c.Future)+len(c.Past))
	out = append(out, c.Future...)
	return append(out, c.Past...)
}

// Roster returns the scout and adult identity lists.
func (c *Catalog) Roster() roster.Roster {
	return roster.Roster{Scouts: c.Scouts, Adults: c.Adults}
}

// Search ranks the scout roster against query. limit <= 0 means no limit.
func (c *Catalog) Search(m *search.Matcher, query string, limit int) []search.Match {
	matches := m.Rank(query, c.Scouts)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// EventsFor returns the events a scout signed up for.
func (c *Catalog) EventsFor(name string) roster.PersonEvents {
	return roster.EventsForPerson(name, c.Future, c.Past)
}

// StatsFor summarizes a scout's participation.
func (c *Catalog) StatsFor(name string) roster.Stats {
	return roster.StatsFor(name, c.Future, c.Past)
}

// EventByID returns the record whose ID is id.
func (c *Catalog) EventByID(id string) (event.Record, bool) {
	for _, list := range [][]event.Record{c.Future, c.Past} {
		for _, r := range list {
			if r.ID() == id {
				return r, true
			}
		}
	}
	return event.Record{}, false
}
