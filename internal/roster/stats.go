package roster

import "github.com/pfrederiksen/troop-events/internal/event"

// Stats summarizes a scout's participation.
type Stats struct {
	Name         string                 `json:"name"`
	TotalEvents  int                    `json:"total_events"`
	FutureEvents int                    `json:"future_events"`
	PastEvents   int                    `json:"past_events"`
	ByCategory   map[event.Category]int `json:"by_category"`

	// CampingDays counts the days spanned by past camping events. Events
	// with unparsable dates add nothing.
	CampingDays int `json:"camping_days"`
}

// StatsFor computes participation statistics for name across the catalog.
func StatsFor(name string, future, past []event.Record) Stats {
	pe := EventsForPerson(name, future, past)

	s := Stats{
		Name:         name,
		FutureEvents: len(pe.Future),
		PastEvents:   len(pe.Past),
		ByCategory:   make(map[event.Category]int),
	}
	if id, ok := Find(Extract(pe.Future, pe.Past).Scouts, name); ok {
		s.Name = id.FullName
	}
	s.TotalEvents = s.FutureEvents + s.PastEvents

	for _, list := range [][]event.Record{pe.Future, pe.Past} {
		for _, r := range list {
			s.ByCategory[r.Category]++
		}
	}
	for _, r := range pe.Past {
		if r.Category == event.CategoryCamping {
			s.CampingDays += event.DayCount(r)
		}
	}
	return s
}
