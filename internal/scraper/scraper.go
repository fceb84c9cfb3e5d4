package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

const (
	UserAgent = "troop-events/1.0 (github.com/pfrederiksen/troop-events)"
	Timeout   = 30 * time.Second
)

// ErrUnexpectedStatus is returned for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Scraper handles fetching and decoding a published sheet
type Scraper struct {
	client     *http.Client
	url        string
	format     sheet.Format
	retries    int
	newBackOff func() backoff.BackOff
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithFormat forces the response format instead of inferring it from the URL.
func WithFormat(f sheet.Format) Option {
	return func(s *Scraper) {
		if f != "" {
			s.format = f
		}
	}
}

// WithRetries sets how many times a failed fetch is retried.
func WithRetries(n int) Option {
	return func(s *Scraper) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackOff replaces the retry schedule.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(s *Scraper) { s.newBackOff = fn }
}

// New creates a Scraper for url.
func New(url string, opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:     url,
		format:  sheet.InferFormat(url),
		retries: 3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the sheet URL.
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads, decodes and normalizes the sheet.
func (s *Scraper) Fetch(ctx context.Context) (*sheet.Payload, error) {
	var table *sheet.RawTable
	attempt := 0

	op := func() error {
		attempt++
		t, err := s.fetchOnce(ctx)
		if err != nil {
			logger.Debug("Sheet fetch attempt failed", logger.Fields{
				"url":     s.url,
				"attempt": attempt,
				"error":   err.Error(),
			})
			return err
		}
		table = t
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("fetching sheet: %w", err)
	}

	return sheet.Normalize(table), nil
}

// fetchOnce performs one request. Errors that retrying cannot fix are
// wrapped with backoff.Permanent.
func (s *Scraper) fetchOnce(ctx context.Context) (*sheet.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		if retryable(resp.StatusCode) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	table, err := sheet.Decode(resp.Body, s.format)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return table, nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Open returns a Source for location: a Scraper for http(s) URLs, a
// sheet.FileSource otherwise. An empty format is inferred from location.
func Open(location string, format sheet.Format, opts ...Option) sheet.Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return New(location, append([]Option{WithFormat(format)}, opts...)...)
	}
	return sheet.FileSource{Path: location, Format: format}
}
