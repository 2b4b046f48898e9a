package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"shadowtalk/internal/domain"
)

// Notifier long-polls the relay's event endpoint and forwards signals on a
// channel. Signals are best-effort: a dropped poll loses nothing of value,
// since consumers re-poll the authoritative fetch endpoints anyway.
type Notifier struct {
	client *Client
	log    *slog.Logger

	// retryDelay spaces out polls after an error.
	retryDelay time.Duration
}

// NewNotifier returns a notifier using the given relay client. A nil
// logger falls back to slog.Default().
func NewNotifier(client *Client, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{client: client, log: log, retryDelay: 2 * time.Second}
}

// Events starts the long-poll loop for me. The returned channel closes
// when ctx is cancelled.
func (n *Notifier) Events(ctx context.Context, me domain.Username) (<-chan domain.Event, error) {
	ch := make(chan domain.Event)
	go n.loop(ctx, me, ch)
	return ch, nil
}

func (n *Notifier) loop(ctx context.Context, me domain.Username, ch chan<- domain.Event) {
	defer close(ch)
	path := "/events/" + url.PathEscape(me.String())

	for ctx.Err() == nil {
		events, err := n.poll(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			n.log.Debug("event poll failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(n.retryDelay):
			}
			continue
		}
		for _, ev := range events {
			select {
			case <-ctx.Done():
				return
			case ch <- ev:
			}
		}
	}
}

// poll issues one long-poll request. The server holds the request open
// until events arrive or its own timeout elapses, returning an empty list
// in the latter case.
func (n *Notifier) poll(ctx context.Context, path string) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.client.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := n.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, &notFoundError{path: path}
	}
	var events []domain.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

var _ domain.Notifier = (*Notifier)(nil)
