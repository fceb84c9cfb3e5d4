// Package metrics provides Prometheus metrics for troop-events.
//
// All methods are safe on a nil *Metrics so callers that do not export
// metrics can pass nil.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "troop_events"

// IngestStats are the sizes recorded after a successful ingestion pass.
type IngestStats struct {
	Rows         int
	Signups      int
	FutureEvents int
	PastEvents   int
	Scouts       int
	Adults       int
}

// Metrics owns the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	ingestPasses   prometheus.Counter
	ingestFailures prometheus.Counter
	ingestDuration prometheus.Histogram
	lastIngestUnix prometheus.Gauge

	rows       prometheus.Gauge
	signups    prometheus.Gauge
	events     *prometheus.GaugeVec
	identities *prometheus.GaugeVec

	searches     prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// New creates collectors registered with a fresh registry. An empty
// namespace uses DefaultNamespace.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ingestPasses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "passes_total",
			Help: "Completed ingestion passes.",
		}),
		ingestFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "failures_total",
			Help: "Ingestion passes that failed to fetch or decode the sheet.",
		}),
		ingestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "duration_seconds",
			Help:    "Wall time of an ingestion pass including the fetch.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		lastIngestUnix: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "last_success_unixtime",
			Help: "Unix time of the last successful ingestion pass.",
		}),
		rows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sheet_rows",
			Help: "Non-blank sheet rows in the current catalog.",
		}),
		signups: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "signups",
			Help: "Valid signups in the current catalog.",
		}),
		events: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "events",
			Help: "Events in the current catalog by timeframe.",
		}, []string{"timeframe"}),
		identities: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "identities",
			Help: "Distinct people in the current catalog by role.",
		}, []string{"role"}),
		searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "searches_total",
			Help: "Name searches served.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveIngest records a successful pass.
func (m *Metrics) ObserveIngest(d time.Duration, s IngestStats, at time.Time) {
	if m == nil {
		return
	}
	m.ingestPasses.Inc()
	m.ingestDuration.Observe(d.Seconds())
	m.lastIngestUnix.Set(float64(at.Unix()))
	m.rows.Set(float64(s.Rows))
	m.signups.Set(float64(s.Signups))
	m.events.WithLabelValues("future").Set(float64(s.FutureEvents))
	m.events.WithLabelValues("past").Set(float64(s.PastEvents))
	m.identities.WithLabelValues("scout").Set(float64(s.Scouts))
	m.identities.WithLabelValues("adult").Set(float64(s.Adults))
}

// IngestFailed records a failed pass.
func (m *Metrics) IngestFailed(d time.Duration) {
	if m == nil {
		return
	}
	m.ingestFailures.Inc()
	m.ingestDuration.Observe(d.Seconds())
}

// SearchServed counts one search.
func (m *Metrics) SearchServed() {
	if m == nil {
		return
	}
	m.searches.Inc()
}

// HTTPRequest counts one HTTP response.
func (m *Metrics) HTTPRequest(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
