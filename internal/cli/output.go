package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/goccy/go-yaml"

	"github.com/pfrederiksen/troop-events/internal/event"
	"github.com/pfrederiksen/troop-events/internal/roster"
	"github.com/pfrederiksen/troop-events/internal/search"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (must be 'text', 'json' or 'yaml')", name)
	}
}

// EventsResult is the output of the events command.
type EventsResult struct {
	CheckedAt  time.Time      `json:"checked_at"`
	Timeframe  string         `json:"timeframe"`
	Filter     string         `json:"filter"`
	NewOnly    bool           `json:"new_only,omitempty"`
	EventCount int            `json:"event_count"`
	Events     []event.Record `json:"events"`
}

// SearchResult is the output of the search command.
type SearchResult struct {
	Query   string         `json:"query"`
	Matches []search.Match `json:"matches"`
}

// PersonResult is the output of the person command.
type PersonResult struct {
	Name   string         `json:"name"`
	Future []event.Record `json:"future"`
	Past   []event.Record `json:"past"`
	Stats  roster.Stats   `json:"stats"`
}

// RosterResult is the output of the roster command.
type RosterResult struct {
	Scouts []roster.Identity `json:"scouts"`
	Adults []roster.Identity `json:"adults,omitempty"`
}

// WriteOutput writes v in the given format. text renders the human form.
func WriteOutput(w io.Writer, format OutputFormat, v any, text func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText:
		return text(w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeEventsText outputs events as human-readable text
func writeEventsText(w io.Writer, result *EventsResult, now time.Time, verbose bool) error {
	label := result.Timeframe + " events"
	if result.NewOnly {
		label = "new events"
	}

	if result.EventCount == 0 {
		fmt.Fprintf(w, "No %s found.\n", label)
		return nil
	}

	for _, r := range result.Events {
		if result.NewOnly {
			fmt.Fprintf(w, "NEW: %s\n", r.Name)
		} else {
			fmt.Fprintf(w, "%s\n", r.Name)
		}
		fmt.Fprintf(w, "     %s | %s | %s, %s\n",
			describeDate(r, now),
			r.Category,
			english.Plural(len(r.Scouts), "scout", ""),
			english.Plural(len(r.Adults), "adult", ""),
		)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", r.ID())
			if len(r.Scouts) > 0 {
				fmt.Fprintf(w, "     Scouts: %s\n", strings.Join(r.Scouts, ", "))
			}
			if len(r.Adults) > 0 {
				fmt.Fprintf(w, "     Adults: %s\n", strings.Join(r.Adults, ", "))
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %s %s\n", humanize.Comma(int64(result.EventCount)), label)
	if result.Filter != "" && result.Filter != "No active filters" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}
	return nil
}

// describeDate renders "2025-11-29 (2 weeks from now)"; unparsable dates are
// shown as-is.
func describeDate(r event.Record, now time.Time) string {
	date := event.ParseDate(r.StartDate, now.Location())
	if date.IsZero() {
		if r.StartDate == "" {
			return "date unknown"
		}
		return r.StartDate
	}

	today := event.Midnight(now)
	var rel string
	switch {
	case date.Equal(today):
		rel = "today"
	default:
		rel = humanize.RelTime(date, today, "ago", "from now")
	}

	text := r.StartDate
	if r.EndDate != "" && r.EndDate != r.StartDate {
		text += " to " + r.EndDate
	}
	return fmt.Sprintf("%s (%s)", text, rel)
}

func writeSearchText(w io.Writer, result *SearchResult) error {
	if len(result.Matches) == 0 {
		fmt.Fprintf(w, "No scouts match %q.\n", result.Query)
		return nil
	}
	for i, m := range result.Matches {
		fmt.Fprintf(w, "%2d. %-30s %3.0f%%\n", i+1, m.Identity.FullName, m.Score*100)
	}
	return nil
}

func writePersonText(w io.Writer, result *PersonResult, now time.Time) error {
	fmt.Fprintf(w, "%s\n", result.Name)

	section := func(title string, records []event.Record) {
		fmt.Fprintf(w, "\n%s (%d):\n", title, len(records))
		if len(records) == 0 {
			fmt.Fprintln(w, "  none")
		}
		for _, r := range records {
			fmt.Fprintf(w, "  %s  %s [%s]\n", describeDate(r, now), r.Name, r.Category)
		}
	}
	section("Upcoming", result.Future)
	section("Past", result.Past)

	s := result.Stats
	fmt.Fprintf(w, "\n%s total, %s camping\n",
		english.Plural(s.TotalEvents, "event", ""),
		english.Plural(s.CampingDays, "day", ""),
	)
	for _, c := range event.Categories {
		if n := s.ByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", c, n)
		}
	}
	return nil
}

func writeRosterText(w io.Writer, result *RosterResult) error {
	fmt.Fprintf(w, "Scouts (%d):\n", len(result.Scouts))
	for _, id := range result.Scouts {
		fmt.Fprintf(w, "  %s\n", id.FullName)
	}
	if result.Adults != nil {
		fmt.Fprintf(w, "\nAdults (%d):\n", len(result.Adults))
		for _, id := range result.Adults {
			fmt.Fprintf(w, "  %s\n", id.FullName)
		}
	}
	return nil
}
