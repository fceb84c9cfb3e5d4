package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/metrics"
	"github.com/pfrederiksen/troop-events/internal/search"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

// ErrNoSource is returned by Refresh when the store has no source.
var ErrNoSource = errors.New("no sheet source configured")

// Store holds the current catalog and refreshes it from a source.
type Store struct {
	source  sheet.Source
	metrics *metrics.Metrics
	matcher *search.Matcher
	loc     *time.Location
	now     func() time.Time
	log     *logger.Logger
	onSwap  func(*Catalog)

	current atomic.Pointer[Catalog]
	// refreshMu serializes ingestion passes; readers never take it.
	refreshMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records ingestion passes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithMatcher sets the matcher used by Search.
func WithMatcher(m *search.Matcher) Option {
	return func(s *Store) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithLocation sets the time zone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for ingestion passes.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithOnRefresh registers fn to run after each successful refresh, with the
// catalog that was swapped in.
func WithOnRefresh(fn func(*Catalog)) Option {
	return func(s *Store) { s.onSwap = fn }
}

// NewStore creates a store that starts out with an empty catalog.
func NewStore(source sheet.Source, opts ...Option) *Store {
	s := &Store{
		source:  source,
		matcher: search.NewMatcher(search.DefaultConfig()),
		loc:     time.Local,
		now:     time.Now,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(Empty())
	return s
}

// Snapshot returns the current catalog. The returned value must not be
// modified.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace swaps in c. A nil catalog is replaced by an empty one.
func (s *Store) Replace(c *Catalog) {
	if c == nil {
		c = Empty()
	}
	s.current.Store(c)
}

// Today returns the current time in the store's location.
func (s *Store) Today() time.Time {
	return s.now().In(s.loc)
}

// Search ranks the current scout roster against query.
func (s *Store) Search(query string, limit int) []search.Match {
	s.metrics.SearchServed()
	return s.Snapshot().Search(s.matcher, query, limit)
}

// Refresh fetches the sheet, builds a new catalog and swaps it in. On a fetch
// error the current catalog is kept.
func (s *Store) Refresh(ctx context.Context) (*Catalog, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	passID := uuid.NewString()
	log := s.log.With(logger.Fields{"pass_id": passID})
	start := s.now()

	log.Debug("Starting ingestion pass", nil)

	payload, err := s.source.Fetch(ctx)
	if err != nil {
		s.metrics.IngestFailed(s.now().Sub(start))
		log.Error("Ingestion pass failed", nil, err)
		return nil, fmt.Errorf("refreshing catalog: %w", err)
	}

	c := Build(payload, s.Today())
	c.PassID = passID
	c.BuiltAt = s.now()

	if c.Rows == 0 {
		log.Warn("Sheet returned no usable rows", nil)
	}

	s.current.Store(c)
	if s.onSwap != nil {
		s.onSwap(c)
	}

	elapsed := c.BuiltAt.Sub(start)
	s.metrics.ObserveIngest(elapsed, metrics.IngestStats{
		Rows:         c.Rows,
		Signups:      c.Signups,
		FutureEvents: len(c.Future),
		PastEvents:   len(c.Past),
		Scouts:       len(c.Scouts),
		Adults:       len(c.Adults),
	}, c.BuiltAt)

	log.Info("Ingestion pass complete", logger.Fields{
		"rows":          c.Rows,
		"signups":       c.Signups,
		"future_events": len(c.Future),
		"past_events":   len(c.Past),
		"scouts":        len(c.Scouts),
		"adults":        len(c.Adults),
		"duration_ms":   elapsed.Milliseconds(),
	})

	return c, nil
}

// Run refreshes immediately and then every interval until ctx is done.
// Failed passes are logged and do not stop the loop.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn("Keeping previous catalog", logger.Fields{"error": err.Error()})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
