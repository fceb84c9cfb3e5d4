package roster

import "github.com/pfrederiksen/troop-events/internal/event"

// PersonEvents lists the events a scout is registered for.
type PersonEvents struct {
	Future []event.Record `json:"future"`
	Past   []event.Record `json:"past"`
}

// EventsForPerson returns the future and past events whose scout list holds
// name, compared case-insensitively with surrounding whitespace ignored.
func EventsForPerson(name string, future, past []event.Record) PersonEvents {
	return PersonEvents{
		Future: withScout(name, future),
		Past:   withScout(name, past),
	}
}

func withScout(name string, records []event.Record) []event.Record {
	out := make([]event.Record, 0)
	for _, r := range records {
		if r.HasScout(name) {
			out = append(out, r)
		}
	}
	return out
}
