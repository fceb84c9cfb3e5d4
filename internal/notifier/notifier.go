package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/pfrederiksen/troop-events/internal/event"
)

// MaxMessageLength caps a formatted message.
const MaxMessageLength = 500

// Notifier defines the interface for posting event notifications
type Notifier interface {
	// Notify posts notifications for the given events
	Notify(ctx context.Context, records []event.Record) error
}

// FormatMessage formats a record as a chat message.
func FormatMessage(r event.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New troop event: %s\n", r.Name)

	if d := event.ParseDate(r.StartDate, time.UTC); !d.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", d.Format("Mon, Jan 2, 2006"))
	}
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Signed up: %s", english.Plural(len(r.Scouts), "scout", ""))
	if len(r.Adults) > 0 {
		fmt.Fprintf(&b, ", %s", english.Plural(len(r.Adults), "adult", ""))
	}

	msg := b.String()
	if len(msg) > MaxMessageLength {
		// Truncate and add ellipsis
		msg = msg[:MaxMessageLength-3] + "..."
	}
	return msg
}
