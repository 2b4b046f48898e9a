package relay_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"shadowtalk/internal/domain"
	"shadowtalk/internal/relay"
	"shadowtalk/internal/relayserver"
)

func newClient(t *testing.T) *relay.Client {
	t.Helper()
	srv := relayserver.New(nil, relayserver.WithPollTimeout(200*time.Millisecond))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return relay.NewClient(ts.URL, nil)
}

func TestRegisterAndLookup(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	var pub domain.PublicKey
	pub[0] = 0xAA
	if err := c.Register(ctx, "alice", pub); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := c.LookupPublicKey(ctx, "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != pub {
		t.Fatalf("lookup returned wrong key: %x", got.Slice())
	}

	if _, err := c.LookupPublicKey(ctx, "nobody"); !errors.Is(err, domain.ErrRecipientNotFound) {
		t.Fatalf("want ErrRecipientNotFound, got %v", err)
	}
}

func TestDirectSendAndInbox(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if err := c.Register(ctx, "alice", domain.PublicKey{}); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := c.Register(ctx, "bob", domain.PublicKey{}); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	msg := domain.DirectMessage{
		Text:     &domain.Envelope{Ciphertext: []byte("ciphertext"), Nonce: []byte("nonce-bytes")},
		Filename: "notes.txt",
		MimeType: "text/plain",
	}
	if err := c.SubmitDirectEnvelope(ctx, "alice", "bob", msg); err != nil {
		t.Fatalf("submit: %v", err)
	}

	inbox, err := c.FetchInbox(ctx, "bob")
	if err != nil {
		t.Fatalf("fetch inbox: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("inbox length = %d, want 1", len(inbox))
	}
	got := inbox[0]
	if got.Sender != "alice" || string(got.Message.Text.Ciphertext) != "ciphertext" || got.Message.Filename != "notes.txt" {
		t.Fatalf("inbox message mangled in transit: %+v", got)
	}
}

func TestGroupLifecycle(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	for _, u := range []domain.Username{"alice", "bob"} {
		if err := c.Register(ctx, u, domain.PublicKey{}); err != nil {
			t.Fatalf("register %s: %v", u, err)
		}
	}

	share := domain.Envelope{Ciphertext: []byte("wrapped-key"), Nonce: []byte("n")}
	g, err := c.CreateGroup(ctx, "alice", "team", []domain.Username{"bob"}, domain.KeyDistribution{
		"alice": share,
		"bob":   share,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.ID == "" || g.Distributor != "alice" {
		t.Fatalf("unexpected group: %+v", g)
	}

	groups, err := c.ListGroups(ctx, "bob")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g.ID {
		t.Fatalf("bob's groups: %+v", groups)
	}

	fetched, err := c.FetchGroupShare(ctx, g.ID, "bob")
	if err != nil {
		t.Fatalf("fetch share: %v", err)
	}
	if string(fetched.Ciphertext) != "wrapped-key" {
		t.Fatalf("share mangled: %+v", fetched)
	}
	if _, err := c.FetchGroupShare(ctx, g.ID, "mallory"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("want ErrMemberNotFound, got %v", err)
	}

	env := domain.Envelope{Ciphertext: []byte("group-ct"), Nonce: []byte("group-n")}
	if err := c.SubmitGroupEnvelope(ctx, "alice", g.ID, env); err != nil {
		t.Fatalf("group send: %v", err)
	}
	msgs, err := c.FetchGroupMessages(ctx, g.ID)
	if err != nil {
		t.Fatalf("group messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != "alice" || string(msgs[0].Envelope.Ciphertext) != "group-ct" {
		t.Fatalf("group history: %+v", msgs)
	}

	newShare := domain.Envelope{Ciphertext: []byte("rewrapped"), Nonce: []byte("n2")}
	if err := c.RotateGroupDistribution(ctx, "bob", g.ID, domain.KeyDistribution{"bob": newShare}); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := c.FetchGroupShare(ctx, g.ID, "alice"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("alice share after rotation: want ErrMemberNotFound, got %v", err)
	}
}

func TestNotifierDeliversSignals(t *testing.T) {
	c := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, u := range []domain.Username{"alice", "bob"} {
		if err := c.Register(ctx, u, domain.PublicKey{}); err != nil {
			t.Fatalf("register %s: %v", u, err)
		}
	}

	n := relay.NewNotifier(c, nil)
	events, err := n.Events(ctx, "bob")
	if err != nil {
		t.Fatalf("events: %v", err)
	}

	msg := domain.DirectMessage{Text: &domain.Envelope{Ciphertext: []byte("ct"), Nonce: []byte("n")}}
	if err := c.SubmitDirectEnvelope(ctx, "alice", "bob", msg); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != domain.EventDirect {
			t.Fatalf("event kind = %v, want direct", ev.Kind)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event delivered")
	}

	cancel()
	select {
	case _, open := <-events:
		if open {
			t.Fatal("channel should close after cancel")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel never closed")
	}
}

func TestDeleteAccountRemovesLookup(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if err := c.Register(ctx, "alice", domain.PublicKey{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.DeleteAccount(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.LookupPublicKey(ctx, "alice"); !errors.Is(err, domain.ErrRecipientNotFound) {
		t.Fatalf("want ErrRecipientNotFound after delete, got %v", err)
	}
}
