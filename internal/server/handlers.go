package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/troop-events/internal/calendar"
	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/event"
	"github.com/pfrederiksen/troop-events/internal/filter"
	"github.com/pfrederiksen/troop-events/internal/roster"
	"github.com/pfrederiksen/troop-events/internal/search"
)

// ErrBadRequest marks query parameters that could not be parsed.
var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string    `json:"status"`
	PassID  string    `json:"pass_id,omitempty"`
	BuiltAt time.Time `json:"built_at"`
	Events  int       `json:"events"`
	Scouts  int       `json:"scouts"`
}

type eventsResponse struct {
	Timeframe string         `json:"timeframe"`
	Filter    string         `json:"filter"`
	Count     int            `json:"count"`
	Events    []event.Record `json:"events"`
}

type eventResponse struct {
	ID string `json:"id"`
	event.Record
	Days int `json:"days"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Matches []search.Match `json:"matches"`
}

type personEventsResponse struct {
	Name string `json:"name"`
	roster.PersonEvents
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.store.Snapshot()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		PassID:  c.PassID,
		BuiltAt: c.BuiltAt,
		Events:  len(c.Future) + len(c.Past),
		Scouts:  len(c.Scouts),
	})
}

// handleEvents handles GET /events.
//
// Query parameters: timeframe (future, past or all; default future),
// category, from, to (YYYY-MM-DD), name, person and sort (date, name,
// category or size).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	timeframe, records, f, order, err := s.selectEvents(s.store.Snapshot(), r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	records = f.Apply(records)
	event.Sort(records, order)

	writeJSON(w, http.StatusOK, eventsResponse{
		Timeframe: timeframe,
		Filter:    f.String(),
		Count:     len(records),
		Events:    records,
	})
}

// handleEventsICS handles GET /events.ics with the same parameters as
// /events.
func (s *Server) handleEventsICS(w http.ResponseWriter, r *http.Request) {
	_, records, f, order, err := s.selectEvents(s.store.Snapshot(), r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	records = f.Apply(records)
	event.Sort(records, order)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="troop-events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar.GenerateICS(records, "", s.now())))
}

// handleEvent handles GET /events/{id}.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := s.store.Snapshot().EventByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("event %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{ID: rec.ID(), Record: rec, Days: event.DayCount(rec)})
}

// handleRoster handles GET /roster.
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().Roster())
}

// handleSearch handles GET /search?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid limit %q", ErrBadRequest, raw))
			return
		}
		limit = n
	}

	matches := s.store.Search(q, limit)
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Count: len(matches), Matches: matches})
}

// handlePersonEvents handles GET /people/{name}/events.
func (s *Server) handlePersonEvents(w http.ResponseWriter, r *http.Request) {
	c := s.store.Snapshot()
	name := r.PathValue("name")

	id, ok := roster.Find(c.Scouts, name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("scout %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, personEventsResponse{Name: id.FullName, PersonEvents: c.EventsFor(name)})
}

// handlePersonStats handles GET /people/{name}/stats.
func (s *Server) handlePersonStats(w http.ResponseWriter, r *http.Request) {
	c := s.store.Snapshot()
	name := r.PathValue("name")

	if _, ok := roster.Find(c.Scouts, name); !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("scout %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, c.StatsFor(name))
}

// selectEvents parses the shared /events query parameters. The returned
// records are a fresh slice the caller may reorder.
func (s *Server) selectEvents(c *catalog.Catalog, r *http.Request) (string, []event.Record, *filter.Filter, event.SortOrder, error) {
	q := r.URL.Query()

	timeframe := strings.ToLower(q.Get("timeframe"))
	var records []event.Record
	switch timeframe {
	case "", "future":
		timeframe = "future"
		records = append([]event.Record{}, c.Future...)
	case "past":
		records = append([]event.Record{}, c.Past...)
	case "all":
		records = c.Events()
	default:
		return "", nil, nil, "", fmt.Errorf("%w: unknown timeframe %q", ErrBadRequest, timeframe)
	}

	f := filter.NewFilter()
	for _, raw := range q["category"] {
		cat, err := event.ParseCategory(raw)
		if err != nil {
			return "", nil, nil, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		f.Categories = append(f.Categories, cat)
	}
	if raw := q.Get("from"); raw != "" {
		d, err := filter.ParseDay(raw)
		if err != nil {
			return "", nil, nil, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		f.DateFrom = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := filter.ParseDay(raw)
		if err != nil {
			return "", nil, nil, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		f.DateTo = d
	}
	if raw := strings.TrimSpace(q.Get("name")); raw != "" {
		f.Names = append(f.Names, raw)
	}
	if raw := strings.TrimSpace(q.Get("person")); raw != "" {
		f.People = append(f.People, raw)
	}

	order, err := event.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return "", nil, nil, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return timeframe, records, f, order, nil
}
