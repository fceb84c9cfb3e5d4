// Package filter narrows a list of event records.
//
// Criteria are combined with AND; within a list criterion (categories, names,
// people) any entry may match:
//   - Date range (from/to, inclusive, by start date)
//   - Categories (exact)
//   - Event names (substring matching, case-insensitive)
//   - People (substring matching against scouts and adults, case-insensitive)
//
// Example usage:
//
//	// Camping trips in December that Jon signed up for
//	f := filter.NewFilter()
//	f.Categories = []event.Category{event.CategoryCamping}
//	f.People = []string{"jon"}
//	f.DateFrom, f.DateTo, _ = filter.ParseDateRange("December", now)
//
//	filtered := f.Apply(records)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/troop-events/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Categories []event.Category `json:"categories,omitempty"`

	// Event name filtering (case-insensitive substring match)
	Names []string `json:"names,omitempty"`

	// Participant filtering (case-insensitive substring match)
	People []string `json:"people,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Categories: []event.Category{},
		Names:      []string{},
		People:     []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Categories) == 0 &&
		len(f.Names) == 0 &&
		len(f.People) == 0
}

// Matches checks if a record matches all active filter criteria.
// A record whose start date cannot be parsed never matches a date range.
func (f *Filter) Matches(r event.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		date := event.ParseDate(r.StartDate, time.UTC)
		if date.IsZero() {
			return false
		}
		if f.DateFrom != nil && date.Before(day(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && date.After(day(*f.DateTo)) {
			return false
		}
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, c := range f.Categories {
			if r.Category == c {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Names) > 0 && !containsAnyFold([]string{r.Name}, f.Names) {
		return false
	}

	if len(f.People) > 0 {
		people := make([]string, 0, len(r.Scouts)+len(r.Adults))
		people = append(people, r.Scouts...)
		people = append(people, r.Adults...)
		if !containsAnyFold(people, f.People) {
			return false
		}
	}

	return true
}

// Apply returns the matching records in a new slice, keeping their order.
func (f *Filter) Apply(records []event.Record) []event.Record {
	filtered := make([]event.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: Nov 1, 2025 | To: Nov 30, 2025 | Categories: Camping | People: jon"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = string(c)
		}
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(names, ", ")))
	}

	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Names: %s", strings.Join(f.Names, ", ")))
	}

	if len(f.People) > 0 {
		parts = append(parts, fmt.Sprintf("People: %s", strings.Join(f.People, ", ")))
	}

	return strings.Join(parts, " | ")
}

// day drops the time of day, keeping the calendar date in UTC.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsAnyFold(haystacks, needles []string) bool {
	for _, h := range haystacks {
		lower := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lower, strings.ToLower(strings.TrimSpace(n))) {
				return true
			}
		}
	}
	return false
}
