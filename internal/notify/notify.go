// Package notify fans site status transitions out to chat and event
// channels. Delivery is best-effort.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/uptimehistory/internal/domain"
)

// Event is a status change of one site.
type Event struct {
	Site      string        `json:"site"`
	Name      string        `json:"name,omitempty"`
	From      domain.Status `json:"from"`
	To        domain.Status `json:"to"`
	Timestamp int64         `json:"timestamp"` // epoch ms
}

// Title is the one-line headline used by chat notifiers.
func (e Event) Title() string {
	if e.To.Available() {
		return "🟢 Target RECOVERED"
	}
	return "🔴 Target DOWN"
}

// Text is the human readable body used by chat notifiers.
func (e Event) Text() string {
	label := e.Site
	if e.Name != "" && e.Name != e.Site {
		label = fmt.Sprintf("%s (%s)", e.Name, e.Site)
	}
	from := string(e.From)
	if from == "" {
		from = "n/a"
	}
	return fmt.Sprintf("URL: %s\nPrevious: %s\nChecked: %s",
		label, from, time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339))
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Multi delivers to every notifier and reports all failures together.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Notify(ctx, e))
	}
	return err
}
