package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/troop-events/internal/event"
)

const (
	prodID    = "-//Troop Events//troop-events//EN"
	uidDomain = "troop-events"
)

// DefaultCalendarName is used when GenerateICS is given an empty name.
const DefaultCalendarName = "Troop Events"

// GenerateICS generates an iCalendar (.ics) document with one all-day
// VEVENT per record. Records whose dates cannot be parsed are left out.
func GenerateICS(records []event.Record, calName string, now time.Time) string {
	if calName == "" {
		calName = DefaultCalendarName
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	fmt.Fprintf(&ics, "X-WR-CALNAME:%s\r\n", escapeICS(calName))

	for _, r := range records {
		writeEvent(&ics, r, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, r event.Record, now time.Time) {
	start := event.ParseDate(r.StartDate, time.UTC)
	if start.IsZero() {
		return
	}
	end := event.ParseDate(r.EndDate, time.UTC)
	if end.Before(start) {
		end = start
	}

	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - stable across runs so calendar clients update in place
	fmt.Fprintf(ics, "UID:%s@%s\r\n", r.ID(), uidDomain)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(now))

	// All-day events: DTEND is exclusive
	fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", formatICSDate(start))
	fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", formatICSDate(end.AddDate(0, 0, 1)))

	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(r.Name))
	fmt.Fprintf(ics, "CATEGORIES:%s\r\n", escapeICS(string(r.Category)))
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(describe(r)))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func describe(r event.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scouts (%d): %s", len(r.Scouts), strings.Join(r.Scouts, ", "))
	if len(r.Adults) > 0 {
		fmt.Fprintf(&b, "\nAdults (%d): %s", len(r.Adults), strings.Join(r.Adults, ", "))
	}
	return b.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
