package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/troop-events/internal/sheet"
)

const gvizBody = `google.visualization.Query.setResponse({"status":"ok","table":{"cols":[{"id":"A","label":"Event Signup"},{"id":"B","label":"First Name"},{"id":"C","label":"Last Name"}],"rows":[{"c":[{"v":"2025 - 11/29 - Leaf Center Service Project"},{"v":"Jon"},{"v":"Smith"}]}]}});`

const htmlBody = `<html><body><table>
<tr><td></td><td></td></tr>
<tr><td>Event Signup</td><td>First Name</td></tr>
<tr><td>2025 - 12/05 - Winter Camp</td><td>Ann</td></tr>
</table></body></html>`

func noWait() backoff.BackOff { return &backoff.ZeroBackOff{} }

func TestFetchGViz(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, gvizBody)
	}))
	defer srv.Close()

	s := New(srv.URL+"/gviz/tq", WithBackOff(noWait))
	payload, err := s.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, UserAgent, userAgent)
	assert.Equal(t, []string{"Event Signup", "First Name", "Last Name"}, payload.Columns)
	require.Equal(t, 1, payload.Len())
	assert.Equal(t, "Jon", payload.Rows[0]["First Name"])
}

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, htmlBody)
	}))
	defer srv.Close()

	s := New(srv.URL+"/pubhtml", WithBackOff(noWait))
	payload, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, payload.Len())
	assert.Equal(t, "2025 - 12/05 - Winter Camp", payload.Rows[0]["Event Signup"])
}

func TestFetchRetries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int32
		status    int
		retries   int
		wantError bool
		wantCalls int32
	}{
		{"recovers after server errors", 2, http.StatusServiceUnavailable, 3, false, 3},
		{"gives up after max retries", 10, http.StatusInternalServerError, 2, true, 3},
		{"rate limited then ok", 1, http.StatusTooManyRequests, 1, false, 2},
		{"not found is permanent", 10, http.StatusNotFound, 3, true, 1},
		{"forbidden is permanent", 10, http.StatusForbidden, 3, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				if n <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				fmt.Fprint(w, gvizBody)
			}))
			defer srv.Close()

			s := New(srv.URL, WithRetries(tt.retries), WithBackOff(noWait))
			_, err := s.Fetch(context.Background())
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnexpectedStatus))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestFetchMalformedIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `setResponse({"status":"ok","table":{"cols":[}});`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithBackOff(noWait)).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchTruncatedBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, gvizBody)
			return
		}
		fmt.Fprint(w, gvizBody[:60])
	}))
	defer srv.Close()

	s := New(srv.URL, WithBackOff(noWait))

	p, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.Rows, 1)

	p, err = s.Fetch(context.Background())
	assert.ErrorIs(t, err, sheet.ErrMalformedGViz)
	assert.Nil(t, p)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, WithBackOff(noWait)).Fetch(ctx)
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	client := &http.Client{}
	s := New("https://example.com/sheet.csv",
		WithHTTPClient(client),
		WithTimeout(5*time.Second),
		WithRetries(-1),
		WithFormat(""),
	)

	assert.Same(t, client, s.client)
	assert.Equal(t, 5*time.Second, s.client.Timeout)
	assert.Equal(t, 3, s.retries)
	assert.Equal(t, sheet.FormatCSV, s.format)
	assert.Equal(t, "https://example.com/sheet.csv", s.URL())

	s = New("https://example.com/sheet", WithFormat(sheet.FormatHTML))
	assert.Equal(t, sheet.FormatHTML, s.format)
}

func TestOpen(t *testing.T) {
	src := Open("https://docs.google.com/spreadsheets/d/x/gviz/tq", "")
	_, ok := src.(*Scraper)
	assert.True(t, ok)

	dir := t.TempDir()
	path := filepath.Join(dir, "signups.csv")
	require.NoError(t, os.WriteFile(path, []byte("Event Signup,First Name\n2025 - 1/4 - Cabin Camp,Ann\n"), 0o644))

	src = Open(path, "")
	fs, ok := src.(sheet.FileSource)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path)

	payload, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, payload.Len())
}
