package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/config"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/metrics"
	"github.com/pfrederiksen/troop-events/internal/scraper"
	"github.com/pfrederiksen/troop-events/internal/search"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

// ErrNewEvents is returned by `events --new` when new events were found.
var ErrNewEvents = errors.New("new events found")

// ErrNoSource is returned when neither config nor flags name a sheet.
var ErrNoSource = errors.New("no sheet source: set --source or TROOP_SOURCE")

// options holds flag values and the resolved configuration shared by every
// command.
type options struct {
	configPath   string
	source       string
	sourceFormat string
	dataDir      string
	output       string
	verbose      bool

	cfg    *config.Config
	format OutputFormat

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	})
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "troop-events",
		Short: "Browse troop event signups from a shared sheet",
		Long: `A CLI tool for the troop's event signup sheet.
Groups sheet rows into events, splits them into upcoming and past,
finds scouts by approximate name, and serves the result over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
	}

	cmd.SetOut(o.stdout)
	cmd.SetErr(o.stderr)

	// Define flags
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML config file (default $TROOP_CONFIG)")
	f.StringVar(&o.source, "source", "", "Signup sheet URL or file path")
	f.StringVar(&o.sourceFormat, "source-format", "", "Sheet format: gviz, html, csv or xlsx (default: inferred)")
	f.StringVar(&o.dataDir, "data-dir", "", "Data directory for snapshots")
	f.StringVarP(&o.output, "output", "o", "text", "Output format: text, json or yaml")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newEventsCmd(o),
		newSearchCmd(o),
		newPersonCmd(o),
		newRosterCmd(o),
		newServeCmd(o),
	)

	return cmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (o *options) setup(cmd *cobra.Command, _ []string) error {
	format, err := ParseOutputFormat(o.output)
	if err != nil {
		return err
	}
	o.format = format

	cfg, err := config.Load(cmd.Context(), o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = o.source
	}
	if flags.Changed("source-format") {
		cfg.SourceFormat = o.sourceFormat
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if o.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	logger.SetDefault(logger.New(cfg.Level(), o.stderr))
	logger.Debug("Configuration loaded", logger.Fields{
		"source":   cfg.Source,
		"data_dir": cfg.DataDir,
		"timezone": cfg.Timezone,
	})
	return nil
}

// sheetSource opens the configured sheet.
func (o *options) sheetSource() (sheet.Source, error) {
	if o.cfg.Source == "" {
		return nil, ErrNoSource
	}
	format, err := o.cfg.Format()
	if err != nil {
		return nil, err
	}
	return scraper.Open(o.cfg.Source, format,
		scraper.WithTimeout(o.cfg.FetchTimeout),
		scraper.WithRetries(o.cfg.FetchRetries),
	), nil
}

// newStore creates a catalog store over the configured sheet.
func (o *options) newStore(m *metrics.Metrics, extra ...catalog.Option) (*catalog.Store, error) {
	src, err := o.sheetSource()
	if err != nil {
		return nil, err
	}
	opts := []catalog.Option{
		catalog.WithMatcher(search.NewMatcher(o.cfg.Search())),
		catalog.WithLocation(o.cfg.Location()),
		catalog.WithClock(o.now),
		catalog.WithMetrics(m),
	}
	return catalog.NewStore(src, append(opts, extra...)...), nil
}

// load runs one ingestion pass and returns the resulting catalog.
func (o *options) load(ctx context.Context) (*catalog.Catalog, *catalog.Store, error) {
	store, err := o.newStore(nil)
	if err != nil {
		return nil, nil, err
	}
	c, err := store.Refresh(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, store, nil
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNewEvents):
		return ExitNewEvents
	default:
		return ExitError
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrNewEvents) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
