package event

import "time"

// Snapshot represents a catalog of events at a point in time
type Snapshot struct {
	Events    map[string]Record `json:"events"`     // keyed by Record.ID()
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events: make(map[string]Record),
	}
}

// CreateSnapshot creates a snapshot from a list of records
func CreateSnapshot(records []Record, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, r := range records {
		snap.Events[r.ID()] = r
	}
	return snap
}

// Records returns the snapshot's records sorted by date, then name.
func (s *Snapshot) Records() []Record {
	records := make([]Record, 0, len(s.Events))
	for _, r := range s.Events {
		records = append(records, r)
	}
	SortChronologically(records)
	return records
}

// Diff returns the records in current that are not present in previous,
// sorted by date then name. A nil previous snapshot treats every record as new.
func Diff(previous *Snapshot, current []Record) []Record {
	if previous == nil {
		previous = NewSnapshot()
	}

	added := make([]Record, 0)
	for _, r := range current {
		if _, exists := previous.Events[r.ID()]; !exists {
			added = append(added, r)
		}
	}

	SortChronologically(added)
	return added
}

// Change describes a person joining or leaving an event between snapshots.
type Change struct {
	EventID    string    `json:"event_id"`
	EventName  string    `json:"event_name"`
	ChangeType string    `json:"change_type"` // "joined", "left"
	Person     string    `json:"person"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectChanges compares the scout and adult lists of the same event in two
// snapshots. A nil previous record reports every participant as joined.
func DetectChanges(previous *Record, current Record, now time.Time) []Change {
	var changes []Change

	var before []string
	if previous != nil {
		before = append(append(before, previous.Scouts...), previous.Adults...)
	}
	after := append(append([]string{}, current.Scouts...), current.Adults...)

	for _, name := range after {
		if !containsName(before, name) {
			changes = append(changes, Change{
				EventID:    current.ID(),
				EventName:  current.Name,
				ChangeType: "joined",
				Person:     name,
				DetectedAt: now,
			})
		}
	}

	for _, name := range before {
		if !containsName(after, name) {
			changes = append(changes, Change{
				EventID:    current.ID(),
				EventName:  current.Name,
				ChangeType: "left",
				Person:     name,
				DetectedAt: now,
			})
		}
	}

	return changes
}

// CompareSnapshots returns the participant changes for every event present
// in current, in current's date order.
func CompareSnapshots(previous, current *Snapshot, now time.Time) []Change {
	if previous == nil {
		previous = NewSnapshot()
	}

	var all []Change
	for _, r := range current.Records() {
		var prev *Record
		if p, ok := previous.Events[r.ID()]; ok {
			prev = &p
		}
		all = append(all, DetectChanges(prev, r, now)...)
	}
	return all
}
