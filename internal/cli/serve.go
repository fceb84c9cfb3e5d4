package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/metrics"
	"github.com/pfrederiksen/troop-events/internal/server"
	"github.com/pfrederiksen/troop-events/internal/storage"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP and keep it refreshed",
		Long: `Serve the event catalog as a JSON API.

The last catalog saved in the data directory is served until the first
refresh completes. The sheet is then re-read every refresh_interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				o.cfg.Addr = addr
			}
			return runServe(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, o *options) error {
	st, err := storage.New(o.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	m := metrics.New("")
	store, err := o.newStore(m, catalog.WithOnRefresh(func(c *catalog.Catalog) {
		if err := st.SaveCatalog(c); err != nil {
			logger.Warn("Failed to cache catalog", logger.Fields{"error": err.Error()})
		}
	}))
	if err != nil {
		return err
	}

	cached, err := st.LoadCatalog()
	switch {
	case err == nil:
		store.Replace(cached)
		logger.Info("Serving cached catalog until first refresh", logger.Fields{"pass_id": cached.PassID})
	case errors.Is(err, storage.ErrNoSnapshot):
	default:
		logger.Warn("Ignoring unreadable catalog cache", logger.Fields{"error": err.Error()})
	}

	srv := server.New(store, server.WithMetrics(m), server.WithLogger(logger.Default()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, o.cfg.Addr)
	})
	g.Go(func() error {
		if o.cfg.RefreshInterval == 0 {
			if _, err := store.Refresh(ctx); err != nil {
				logger.Warn("Initial refresh failed", logger.Fields{"error": err.Error()})
			}
			return nil
		}
		if err := store.Run(ctx, o.cfg.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}
