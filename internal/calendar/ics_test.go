package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pfrederiksen/troop-events/internal/event"
)

var stamp = time.Date(2025, 11, 15, 18, 0, 0, 0, time.UTC)

func TestGenerateICS(t *testing.T) {
	r := event.Record{
		Name:      "Leaf Center Service Project",
		StartDate: "2025-11-29",
		EndDate:   "2025-11-29",
		Category:  event.CategoryServiceProject,
		Scouts:    []string{"Jon Smith", "Ann Lee"},
		Adults:    []string{"Mary Jones"},
	}

	ics := GenerateICS([]event.Record{r}, "Troop 42", stamp)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Troop Events//troop-events//EN",
		"X-WR-CALNAME:Troop 42",
		"BEGIN:VEVENT",
		"UID:" + r.ID() + "@troop-events",
		"DTSTAMP:20251115T180000Z",
		"DTSTART;VALUE=DATE:20251129",
		"DTEND;VALUE=DATE:20251130",
		"SUMMARY:Leaf Center Service Project",
		"CATEGORIES:ServiceProject",
		"DESCRIPTION:Scouts (2): Jon Smith\\, Ann Lee\\nAdults (1): Mary Jones",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		assert.Contains(t, ics, field)
	}

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		assert.NotContains(t, line, "\n", "lines must end with CRLF")
	}
}

func TestGenerateICS_Multiple(t *testing.T) {
	records := []event.Record{
		{Name: "Winter Camp", StartDate: "2025-12-05", EndDate: "2025-12-07", Category: event.CategoryCamping},
		{Name: "No Date", Category: event.CategoryOther},
		{Name: "Wreath Fundraiser", StartDate: "2025-12-01", Category: event.CategoryFundraiser},
	}

	ics := GenerateICS(records, "", stamp)

	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "X-WR-CALNAME:"+DefaultCalendarName)
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20251208")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20251202", "a missing end date is a single day")
	assert.NotContains(t, ics, "SUMMARY:No Date")
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, "", stamp)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.NotContains(t, ics, "BEGIN:VEVENT")
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a, b", "a\\, b"},
		{"a; b", "a\\; b"},
		{"back\\slash", "back\\\\slash"},
		{"two\nlines", "two\\nlines"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeICS(tt.in))
		})
	}
}
