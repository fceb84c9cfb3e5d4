package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 20

// Server wires HTTP routes over a catalog store.
type Server struct {
	store   *catalog.Store
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records requests in m and serves it on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for calendar stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Server and registers its routes.
func New(store *catalog.Store, opts ...Option) *Server {
	s := &Server{
		store: store,
		log:   logger.Default(),
		now:   time.Now,
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("GET /healthz", "healthz", s.handleHealth)
	s.handle("GET /events", "events", s.handleEvents)
	s.handle("GET /events.ics", "events_ics", s.handleEventsICS)
	s.handle("GET /events/{id}", "event", s.handleEvent)
	s.handle("GET /roster", "roster", s.handleRoster)
	s.handle("GET /search", "search", s.handleSearch)
	s.handle("GET /people/{name}/events", "person_events", s.handlePersonEvents)
	s.handle("GET /people/{name}/stats", "person_stats", s.handlePersonStats)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

func (s *Server) handle(pattern, route string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(route, h))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
