package session_test

import (
	"context"
	"testing"
	"time"

	"shadowtalk/internal/domain"
	"shadowtalk/internal/session"
)

func TestWatch_DirectSignalTriggersInboxPoll(t *testing.T) {
	w := newWorld()
	alice := w.newSession(t)
	bob := w.newSession(t)
	login(t, alice, "alice", "pa")
	login(t, bob, "bob", "pb")

	if err := alice.SendDirect(context.Background(), "bob", []byte("ping"), nil, session.SendOptions{}); err != nil {
		t.Fatalf("send: %v", err)
	}

	notifier := newMemNotifier()
	got := make(chan []session.ReceivedMessage, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- bob.Watch(ctx, notifier, func(msgs []session.ReceivedMessage) {
			got <- msgs
		}, nil)
	}()

	notifier.ch <- domain.Event{Kind: domain.EventDirect}

	select {
	case msgs := <-got:
		if len(msgs) != 1 || msgs[0].Text != "ping" {
			t.Fatalf("unexpected inbox: %+v", msgs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("inbox handler never fired")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestWatch_GroupSignalRefreshesUnknownGroup(t *testing.T) {
	w := newWorld()
	alice := w.newSession(t)
	bob := w.newSession(t)
	login(t, alice, "alice", "pa")
	login(t, bob, "bob", "pb")

	view, _, err := alice.CreateGroup(context.Background(), "live", []domain.Username{"bob"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := alice.SendGroup(context.Background(), view.ID, []byte("first")); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Bob has never refreshed; the signal alone must get him the share.
	notifier := newMemNotifier()
	got := make(chan []session.GroupText, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = bob.Watch(ctx, notifier, nil, func(id domain.GroupID, msgs []session.GroupText) {
			if id == view.ID {
				got <- msgs
			}
		})
	}()

	notifier.ch <- domain.Event{Kind: domain.EventGroup, GroupID: view.ID}

	select {
	case msgs := <-got:
		if len(msgs) != 1 || msgs[0].Text != "first" || !msgs[0].Decrypted {
			t.Fatalf("unexpected group messages: %+v", msgs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("group handler never fired")
	}
}

func TestWatch_ClosedChannelEndsLoop(t *testing.T) {
	w := newWorld()
	s := w.newSession(t)
	login(t, s, "alice", "pa")

	notifier := newMemNotifier()
	close(notifier.ch)

	if err := s.Watch(context.Background(), notifier, nil, nil); err != nil {
		t.Fatalf("want nil on closed channel, got %v", err)
	}
}
