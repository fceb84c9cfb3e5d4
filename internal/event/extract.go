package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/troop-events/internal/sheet"
)

var (
	// "2025 - 11/29" anywhere in the event text.
	datePattern = regexp.MustCompile(`(\d{4})\s*-\s*(\d{1,2})/(\d{1,2})`)

	// Leading "2025 - 11/29 - " prefix removed from the display name.
	datePrefixPattern = regexp.MustCompile(`^\s*\d{4}\s*-\s*\d{1,2}/\d{1,2}\s*-\s*`)
)

// categoryRules are checked in order against the lowercased clean name.
var categoryRules = []struct {
	substr   string
	category Category
}{
	{"eagle project", CategoryEagleProject},
	{"service project", CategoryServiceProject},
	{"fundraiser", CategoryFundraiser},
	{"camp", CategoryCamping},
}

// ExtractDate finds a "YYYY - M/D" date in raw and returns it as YYYY-MM-DD.
// Returns "" when no date is present.
func ExtractDate(raw string) string {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}

// CleanName strips the leading date prefix from an event name.
func CleanName(raw string) string {
	return strings.TrimSpace(datePrefixPattern.ReplaceAllString(raw, ""))
}

// ClassifyName returns the category for a cleaned event name.
func ClassifyName(name string) Category {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.substr) {
			return rule.category
		}
	}
	return CategoryOther
}

// Extract derives a Signup from one row. The end date always equals the
// start date; trailing time ranges such as "(2 pm - 4 pm)" stay in the name.
func (c Columns) Extract(row sheet.Row) Signup {
	raw := row[c.Event]
	name := CleanName(raw)
	date := ExtractDate(raw)

	return Signup{
		PersonName:   strings.TrimSpace(row[c.First] + " " + row[c.Last]),
		EventNameRaw: raw,
		EventName:    name,
		StartDate:    date,
		EndDate:      date,
		Category:     ClassifyName(name),
		IsAdult:      strings.Contains(strings.ToLower(row[c.Role]), "adult"),
	}
}

// ExtractSignups resolves the payload's columns once and returns the valid
// signups of every row, in row order.
func ExtractSignups(p *sheet.Payload) []Signup {
	signups := make([]Signup, 0, p.Len())
	if p.Len() == 0 {
		return signups
	}

	cols := ResolveColumns(p.Columns)
	for _, row := range p.Rows {
		s := cols.Extract(row)
		if !s.Valid() {
			continue
		}
		signups = append(signups, s)
	}
	return signups
}
