package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/metrics"
	"github.com/pfrederiksen/troop-events/internal/roster"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

var today = time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC)

func testPayload() *sheet.Payload {
	cols := []string{"Event Signup", "First Name", "Last Name", "Patrol Leader - Patrol?"}
	rows := [][]string{
		{"2025 - 11/29 - Leaf Center Service Project", "Jon", "Smith", "Eagle Patrol"},
		{"2025 - 11/29 - Leaf Center Service Project", "Mary", "Jones", "Adult Leader"},
		{"2025 - 12/05 - Winter Camp", "Ann", "Lee", "Hawk Patrol"},
		{"2025 - 12/05 - Winter Camp", "Jon", "Smith", "Eagle Patrol"},
		{"2025 - 10/04 - Fall Camporee", "Jon", "Smith", "Eagle Patrol"},
	}
	p := &sheet.Payload{Columns: cols}
	for _, r := range rows {
		row := sheet.Row{}
		for i, c := range cols {
			row[c] = r[i]
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

func newTestServer(t *testing.T) (*Server, *metrics.Metrics, *bytes.Buffer) {
	t.Helper()

	m := metrics.New("")
	store := catalog.NewStore(nil, catalog.WithMetrics(m))
	store.Replace(catalog.Build(testPayload(), today))

	var logs bytes.Buffer
	srv := New(store,
		WithMetrics(m),
		WithLogger(logger.New(logger.LevelDebug, &logs)),
		WithClock(func() time.Time { return today }),
	)
	return srv, m, &logs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.Events)
	assert.Equal(t, 2, body.Scouts)
}

func TestEvents(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantNames []string
	}{
		{"default is future by date", "", http.StatusOK, []string{"Leaf Center Service Project", "Winter Camp"}},
		{"past", "?timeframe=past", http.StatusOK, []string{"Fall Camporee"}},
		{"all sorted by name", "?timeframe=all&sort=name", http.StatusOK, []string{"Fall Camporee", "Leaf Center Service Project", "Winter Camp"}},
		{"category", "?timeframe=all&category=camping", http.StatusOK, []string{"Fall Camporee", "Winter Camp"}},
		{"date range", "?timeframe=all&from=2025-11-01&to=2025-11-30", http.StatusOK, []string{"Leaf Center Service Project"}},
		{"person", "?person=ann", http.StatusOK, []string{"Winter Camp"}},
		{"name", "?name=leaf", http.StatusOK, []string{"Leaf Center Service Project"}},
		{"bad timeframe", "?timeframe=soon", http.StatusBadRequest, nil},
		{"bad category", "?category=picnic", http.StatusBadRequest, nil},
		{"bad date", "?from=11/01/2025", http.StatusBadRequest, nil},
		{"bad sort", "?sort=random", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, "/events"+tt.query)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, "bad_request", decode[errorResponse](t, rec).Code)
				return
			}

			body := decode[eventsResponse](t, rec)
			names := make([]string, 0, len(body.Events))
			for _, e := range body.Events {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, len(tt.wantNames), body.Count)
		})
	}
}

func TestEventsDoNotReorderSnapshot(t *testing.T) {
	srv, _, _ := newTestServer(t)
	before := srv.store.Snapshot().Future[0].Name

	get(t, srv, "/events?sort=name")
	get(t, srv, "/events?sort=size")

	assert.Equal(t, before, srv.store.Snapshot().Future[0].Name)
}

func TestEventByID(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := srv.store.Snapshot().Future[1]

	resp := get(t, srv, "/events/"+rec.ID())
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[eventResponse](t, resp)
	assert.Equal(t, rec.ID(), body.ID)
	assert.Equal(t, "Winter Camp", body.Name)
	assert.Equal(t, 1, body.Days)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/events/nope").Code)
}

func TestEventsICS(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := get(t, srv, "/events.ics?timeframe=all")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
	assert.Contains(t, rec.Body.String(), "DTSTAMP:20251115T090000Z")
}

func TestRoster(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := decode[roster.Roster](t, get(t, srv, "/roster"))
	require.Len(t, body.Scouts, 2)
	assert.Equal(t, "Jon Smith", body.Scouts[0].FullName)
	require.Len(t, body.Adults, 1)
	assert.Equal(t, "Mary Jones", body.Adults[0].FullName)
}

func TestSearch(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := get(t, srv, "/search?q="+url.QueryEscape("jon sith"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[searchResponse](t, rec)
	require.NotEmpty(t, body.Matches)
	assert.Equal(t, "Jon Smith", body.Matches[0].Identity.FullName)

	assert.Equal(t, 0, decode[searchResponse](t, get(t, srv, "/search?q=")).Count)
	assert.Equal(t, 1, decode[searchResponse](t, get(t, srv, "/search?q=n&limit=1")).Count)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/search?q=jon&limit=-1").Code)

	assert.Contains(t, get(t, srv, "/metrics").Body.String(), "troop_events_searches_total 3")
}

func TestPeople(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := get(t, srv, "/people/"+url.PathEscape("jon smith")+"/events")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[personEventsResponse](t, rec)
	assert.Equal(t, "Jon Smith", events.Name)
	assert.Len(t, events.Future, 2)
	assert.Len(t, events.Past, 1)

	rec = get(t, srv, "/people/"+url.PathEscape("Jon Smith")+"/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[roster.Stats](t, rec)
	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 1, stats.CampingDays)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/people/Mary%20Jones/events").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/people/nobody/stats").Code)
}

func TestMetricsAndLogging(t *testing.T) {
	srv, m, logs := newTestServer(t)

	get(t, srv, "/healthz")
	get(t, srv, "/events?timeframe=bogus")

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `troop_events_http_requests_total{code="200",route="healthz"} 1`)
	assert.Contains(t, rec.Body.String(), `troop_events_http_requests_total{code="400",route="events"} 1`)

	n, err := testutil.GatherAndCount(m.Registry(), "troop_events_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, logs.String(), `"route":"healthz"`)
}

func TestUnknownRoute(t *testing.T) {
	srv, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
