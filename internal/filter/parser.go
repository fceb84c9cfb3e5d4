package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/troop-events/internal/event"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)`

var (
	isoRangeRe   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|\s+to\s+)\s*(\d{4}-\d{2}-\d{2})$`)
	dayRangeRe   = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	monthRangeRe = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)
	monthRe      = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
)

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(input string) (*time.Time, error) {
	t := event.ParseDate(strings.TrimSpace(input), time.UTC)
	if t.IsZero() {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input)
	}
	return &t, nil
}

// ParseDateRange parses a date range string into start and end dates.
//
// Supported formats:
//   - "2025-11-01..2025-11-30" or "2025-11-01 to 2025-11-30"
//   - "2025-11-29" - A single day
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "March" - Entire month
//
// For formats without a year, a month earlier than now's month is assumed
// to be next year; for cross-month ranges, if the end month is before the
// start month, the end is in the following year.
//
// Returns (dateFrom, dateTo, error). Dates are at midnight UTC.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if matches := isoRangeRe.FindStringSubmatch(input); matches != nil {
		from, err := ParseDay(matches[1])
		if err != nil {
			return nil, nil, err
		}
		to, err := ParseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		return ordered(from, to)
	}

	if d, err := ParseDay(input); err == nil {
		to := *d
		return d, &to, nil
	}

	if matches := dayRangeRe.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		day1, err := parseDayOfMonth(matches[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDayOfMonth(matches[3])
		if err != nil {
			return nil, nil, err
		}

		year := getYearForMonth(month, now)
		from := time.Date(year, month, day1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, month, day2, 0, 0, 0, 0, time.UTC)
		return ordered(&from, &to)
	}

	if matches := monthRangeRe.FindStringSubmatch(input); matches != nil {
		month1 := parseMonth(matches[1])
		day1, err := parseDayOfMonth(matches[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(matches[3])
		day2, err := parseDayOfMonth(matches[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := getYearForMonth(month1, now)
		year2 := year1
		// If month2 < month1, assume month2 is in the next year
		if month2 < month1 {
			year2++
		}

		from := time.Date(year1, month1, day1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year2, month2, day2, 0, 0, 0, 0, time.UTC)
		return ordered(&from, &to)
	}

	if matches := monthRe.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		year := getYearForMonth(month, now)
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Last day of month
		to := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '2025-11-01..2025-11-30', 'Mar 1-15', 'March 1 - April 15', or 'March'")
}

func ordered(from, to *time.Time) (*time.Time, *time.Time, error) {
	if from.After(*to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return from, to, nil
}

func parseDayOfMonth(s string) (int, error) {
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 || d > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return d, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}

// getYearForMonth returns the year a bare month name refers to relative to
// now: this year, or next year if the month has already passed.
func getYearForMonth(month time.Month, now time.Time) int {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}
