package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/troop-events/internal/roster"
)

func newSearchCmd(o *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Find scouts by approximate name",
		Example: `  troop-events search jon sith
  troop-events search --limit 3 smith`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			_, store, err := o.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading roster: %w", err)
			}

			result := &SearchResult{Query: query, Matches: store.Search(query, limit)}
			return WriteOutput(o.stdout, o.format, result, func(w io.Writer) error {
				return writeSearchText(w, result)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of matches (0 for all)")
	return cmd
}

func newPersonCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "person NAME...",
		Short: "Show the events a scout signed up for",
		Long: `Show a scout's upcoming and past events with participation statistics.
The name must match a scout exactly, ignoring case; use search to find it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			c, _, err := o.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading events: %w", err)
			}

			id, ok := roster.Find(c.Scouts, name)
			if !ok {
				return fmt.Errorf("no scout named %q (try: troop-events search %s)", name, name)
			}

			pe := c.EventsFor(id.FullName)
			result := &PersonResult{
				Name:   id.FullName,
				Future: pe.Future,
				Past:   pe.Past,
				Stats:  c.StatsFor(id.FullName),
			}
			return WriteOutput(o.stdout, o.format, result, func(w io.Writer) error {
				return writePersonText(w, result, o.now().In(o.cfg.Location()))
			})
		},
	}
}

func newRosterCmd(o *options) *cobra.Command {
	var adults bool

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List every scout who signed up for an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := o.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading roster: %w", err)
			}

			result := &RosterResult{Scouts: c.Scouts}
			if adults {
				result.Adults = c.Adults
			}
			return WriteOutput(o.stdout, o.format, result, func(w io.Writer) error {
				return writeRosterText(w, result)
			})
		},
	}

	cmd.Flags().BoolVar(&adults, "adults", false, "Also list adults")
	return cmd
}
