package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/troop-events/internal/event"
)

// ErrWebhookStatus is returned when the webhook answers with a non-2xx status.
var ErrWebhookStatus = errors.New("webhook rejected message")

// WebhookNotifier posts events to a chat webhook
type WebhookNotifier struct {
	url     string
	client  *http.Client
	retries uint64
	pause   time.Duration
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(url string, client *http.Client) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebhookNotifier{
		url:     url,
		client:  client,
		retries: 3,
		pause:   time.Second,
	}, nil
}

type webhookMessage struct {
	Text    string `json:"text"`
	EventID string `json:"event_id"`
}

// Notify posts one message per record
func (n *WebhookNotifier) Notify(ctx context.Context, records []event.Record) error {
	for i, r := range records {
		if err := n.post(ctx, webhookMessage{Text: FormatMessage(r), EventID: r.ID()}); err != nil {
			return fmt.Errorf("failed to post message for event %s: %w", r.ID(), err)
		}

		// Rate limiting: wait between messages
		if i < len(records)-1 && n.pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.pause):
			}
		}
	}

	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		err = fmt.Errorf("%w: status %d", ErrWebhookStatus, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.pause
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, n.retries), ctx))
}
