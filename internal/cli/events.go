package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/troop-events/internal/calendar"
	"github.com/pfrederiksen/troop-events/internal/event"
	"github.com/pfrederiksen/troop-events/internal/filter"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/notifier"
	"github.com/pfrederiksen/troop-events/internal/storage"
)

type eventsFlags struct {
	past       bool
	all        bool
	newOnly    bool
	refresh    bool
	snapshot   string
	categories []string
	from       string
	to         string
	dateRange  string
	match      []string
	person     []string
	sort       string
	ics        bool
	notify     bool
	dryRun     bool
}

func newEventsCmd(o *options) *cobra.Command {
	ef := &eventsFlags{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming or past events",
		Long: `List events from the signup sheet.

With --new, only events that were not present on the previous run are shown
and the exit code is 2 when there are any. The snapshot of the current events
is saved on every --new run; --refresh saves it without reporting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvents(cmd, o, ef)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&ef.past, "past", false, "Show past events instead of upcoming ones")
	f.BoolVar(&ef.all, "all", false, "Show upcoming and past events")
	f.BoolVar(&ef.newOnly, "new", false, "Show only events added since the last run")
	f.BoolVar(&ef.refresh, "refresh", false, "Save the snapshot without showing new events")
	f.StringVar(&ef.snapshot, "snapshot", "", "Snapshot name, for tracking more than one sheet")
	f.StringSliceVar(&ef.categories, "category", nil, "Only these categories (EagleProject, ServiceProject, Fundraiser, Camping, Other)")
	f.StringVar(&ef.from, "from", "", "Only events starting on or after this date (YYYY-MM-DD)")
	f.StringVar(&ef.to, "to", "", "Only events starting on or before this date (YYYY-MM-DD)")
	f.StringVar(&ef.dateRange, "range", "", "Date range, e.g. 'Dec 1-15', 'March' or '2025-11-01..2025-11-30'")
	f.StringSliceVar(&ef.match, "match", nil, "Only events whose name contains this text")
	f.StringSliceVar(&ef.person, "person", nil, "Only events this person signed up for (substring)")
	f.StringVar(&ef.sort, "sort", "date", "Sort by: date, name, category or size")
	f.BoolVar(&ef.ics, "ics", false, "Write an iCalendar file instead of a listing")
	f.BoolVar(&ef.notify, "notify", false, "Post new events to the configured notify_webhook (requires --new)")
	f.BoolVar(&ef.dryRun, "dry-run", false, "With --notify, print the messages instead of posting them")

	cmd.MarkFlagsMutuallyExclusive("past", "all")
	cmd.MarkFlagsMutuallyExclusive("range", "from")
	cmd.MarkFlagsMutuallyExclusive("range", "to")
	cmd.MarkFlagsMutuallyExclusive("notify", "refresh")
	cmd.MarkFlagsMutuallyExclusive("notify", "ics")

	return cmd
}

// buildFilter turns the filter flags into a Filter.
func (ef *eventsFlags) buildFilter(o *options) (*filter.Filter, error) {
	f := filter.NewFilter()

	for _, name := range ef.categories {
		c, err := event.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		f.Categories = append(f.Categories, c)
	}

	if ef.dateRange != "" {
		from, to, err := filter.ParseDateRange(ef.dateRange, o.now())
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	if ef.from != "" {
		d, err := filter.ParseDay(ef.from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		f.DateFrom = d
	}
	if ef.to != "" {
		d, err := filter.ParseDay(ef.to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		f.DateTo = d
	}

	f.Names = append(f.Names, ef.match...)
	f.People = append(f.People, ef.person...)
	return f, nil
}

// selectNotifier returns the notifier selected by --notify and --dry-run.
func (ef *eventsFlags) selectNotifier(o *options) (notifier.Notifier, error) {
	switch {
	case !ef.notify:
		return nil, nil
	case !ef.newOnly:
		return nil, fmt.Errorf("--notify requires --new")
	case ef.dryRun:
		return notifier.NewDryRunNotifier(o.stderr), nil
	default:
		return notifier.NewWebhookNotifier(o.cfg.NotifyWebhook, nil)
	}
}

// runEvents is the events command logic
func runEvents(cmd *cobra.Command, o *options, ef *eventsFlags) error {
	order, err := event.ParseSortOrder(ef.sort)
	if err != nil {
		return err
	}
	f, err := ef.buildFilter(o)
	if err != nil {
		return err
	}
	notify, err := ef.selectNotifier(o)
	if err != nil {
		return err
	}

	c, _, err := o.load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	timeframe := "upcoming"
	records := append([]event.Record{}, c.Future...)
	switch {
	case ef.past:
		timeframe = "past"
		records = append([]event.Record{}, c.Past...)
	case ef.all:
		timeframe = "all"
		records = c.Events()
	}

	var snap *snapshotDiff
	if ef.newOnly || ef.refresh {
		snap, err = o.diffAgainstSnapshot(c.Events(), records, ef)
		if err != nil {
			return err
		}
		if ef.refresh {
			if err := snap.save(o.now()); err != nil {
				return err
			}
			fmt.Fprintln(o.stdout, "Snapshot refreshed successfully.")
			return nil
		}
		records = snap.added
	}

	records = f.Apply(records)
	event.Sort(records, order)

	if ef.ics {
		if _, err := io.WriteString(o.stdout, calendar.GenerateICS(records, "", o.now())); err != nil {
			return err
		}
		return snap.save(o.now())
	}

	result := &EventsResult{
		CheckedAt:  o.now().UTC(),
		Timeframe:  timeframe,
		Filter:     f.String(),
		NewOnly:    ef.newOnly,
		EventCount: len(records),
		Events:     records,
	}

	if err := WriteOutput(o.stdout, o.format, result, func(w io.Writer) error {
		return writeEventsText(w, result, o.now().In(o.cfg.Location()), o.verbose)
	}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if notify != nil && len(records) > 0 {
		if err := notify.Notify(cmd.Context(), records); err != nil {
			return fmt.Errorf("sending notifications: %w", err)
		}
		logger.Info("Sent notifications", logger.Fields{"events": len(records), "dry_run": ef.dryRun})
	}

	// A dry run leaves the snapshot alone so the real run still sees the
	// same events as new.
	if !(ef.notify && ef.dryRun) {
		if err := snap.save(o.now()); err != nil {
			return err
		}
	}

	if ef.newOnly && len(records) > 0 {
		return ErrNewEvents
	}
	return nil
}

// snapshotDiff holds the result of comparing the current events with the
// stored snapshot until the snapshot is replaced.
type snapshotDiff struct {
	store   *storage.Storage
	name    string
	current []event.Record
	added   []event.Record
}

// save replaces the stored snapshot with every current record. A nil
// snapshotDiff saves nothing.
func (d *snapshotDiff) save(now time.Time) error {
	if d == nil {
		return nil
	}
	if err := d.store.CreateSnapshotFromRecords(d.current, d.name, now); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Debug("Saved snapshot", logger.Fields{"events": len(d.current), "new": len(d.added)})
	return nil
}

// diffAgainstSnapshot keeps the records in selected that are missing from the
// stored snapshot. The snapshot itself is not touched until save.
func (o *options) diffAgainstSnapshot(current, selected []event.Record, ef *eventsFlags) (*snapshotDiff, error) {
	store, err := storage.New(o.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadSnapshot(ef.snapshot)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	logger.Debug("Loaded previous snapshot", logger.Fields{"events": len(previous.Events)})

	next := event.CreateSnapshot(current, "")
	for _, ch := range event.CompareSnapshots(previous, next, o.now()) {
		if _, known := previous.Events[ch.EventID]; !known {
			continue
		}
		logger.Debug("Signup changed", logger.Fields{"event": ch.EventName, "change": ch.ChangeType, "person": ch.Person})
	}

	return &snapshotDiff{
		store:   store,
		name:    ef.snapshot,
		current: current,
		added:   event.Diff(previous, selected),
	}, nil
}
