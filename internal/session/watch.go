package session

import (
	"context"

	"shadowtalk/internal/domain"
)

// InboxHandler receives freshly fetched direct messages.
type InboxHandler func([]ReceivedMessage)

// GroupHandler receives freshly fetched messages for one group.
type GroupHandler func(domain.GroupID, []GroupText)

// Watch listens for push signals and re-polls the pull-based fetch
// operations on each one. The signal payload is never trusted for
// authenticity or completeness; it only says "look again". Fetch errors
// are logged and the loop continues. Watch returns when ctx is done or
// the event channel closes.
func (s *Session) Watch(ctx context.Context, notifier domain.Notifier, onInbox InboxHandler, onGroup GroupHandler) error {
	me, _, err := s.currentIdentity()
	if err != nil {
		return err
	}

	events, err := notifier.Events(ctx, me)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case domain.EventDirect:
				msgs, err := s.FetchInbox(ctx)
				if err != nil {
					s.log.Warn("inbox refresh failed", "err", err)
					continue
				}
				if onInbox != nil && len(msgs) > 0 {
					onInbox(msgs)
				}
			case domain.EventGroup:
				if _, err := s.entry(ev.GroupID); err != nil {
					// Unknown group: a share may be waiting for us.
					if _, err := s.RefreshGroups(ctx); err != nil {
						s.log.Warn("group refresh failed", "err", err)
						continue
					}
				}
				msgs, err := s.FetchGroupMessages(ctx, ev.GroupID)
				if err != nil {
					s.log.Warn("group fetch failed", "group", ev.GroupID, "err", err)
					continue
				}
				if onGroup != nil && len(msgs) > 0 {
					onGroup(ev.GroupID, msgs)
				}
			default:
				s.log.Warn("unknown event kind", "kind", ev.Kind)
			}
		}
	}
}
