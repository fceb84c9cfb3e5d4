package event

import "time"

// DateLayout is the ISO layout of Record start and end dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(date string, loc *time.Location) time.Time {
	if date == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsPast reports whether the record ended before today.
// Returns false if the date cannot be parsed (an unknown date is kept as
// upcoming).
func (r Record) IsPast(today time.Time) bool {
	today = Midnight(today)
	parsed := ParseDate(r.Date(), today.Location())
	if parsed.IsZero() {
		return false
	}
	return parsed.Before(today)
}

// Classify splits records into future and past relative to today. Each
// record lands in exactly one list and relative order is preserved.
func Classify(records []Record, today time.Time) (future, past []Record) {
	future = make([]Record, 0, len(records))
	past = make([]Record, 0)
	for _, r := range records {
		if r.IsPast(today) {
			past = append(past, r)
		} else {
			future = append(future, r)
		}
	}
	return future, past
}

// DayCount returns the inclusive number of days the record spans.
// Returns 0 when either date cannot be parsed or the end precedes the start.
func DayCount(r Record) int {
	start := ParseDate(r.StartDate, time.UTC)
	end := ParseDate(r.Date(), time.UTC)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
