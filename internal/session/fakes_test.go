package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shadowtalk/internal/domain"
)

// memDirectory is an in-memory username -> public key directory.
type memDirectory struct {
	mu   sync.Mutex
	keys map[domain.Username]domain.PublicKey
}

func newMemDirectory() *memDirectory {
	return &memDirectory{keys: make(map[domain.Username]domain.PublicKey)}
}

func (d *memDirectory) Register(_ context.Context, u domain.Username, pub domain.PublicKey) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[u] = pub
	return nil
}

func (d *memDirectory) LookupPublicKey(_ context.Context, u domain.Username) (domain.PublicKey, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pub, ok := d.keys[u]
	if !ok {
		return domain.PublicKey{}, domain.ErrRecipientNotFound
	}
	return pub, nil
}

func (d *memDirectory) DeleteAccount(_ context.Context, u domain.Username) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.keys, u)
	return nil
}

// replaceKey simulates a directory serving a different key for a contact,
// the situation trust verification exists to catch.
func (d *memDirectory) replaceKey(u domain.Username, pub domain.PublicKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[u] = pub
}

var _ domain.Directory = (*memDirectory)(nil)

// flakyDirectory fails the first Register calls, then behaves normally.
type flakyDirectory struct {
	*memDirectory
	failures int
}

func (d *flakyDirectory) Register(ctx context.Context, u domain.Username, pub domain.PublicKey) error {
	if d.failures > 0 {
		d.failures--
		return errors.New("directory unavailable")
	}
	return d.memDirectory.Register(ctx, u, pub)
}

// memGroup is the transport-side record of one group.
type memGroup struct {
	group domain.Group
	dist  domain.KeyDistribution
	msgs  []domain.GroupMessage
}

// memTransport is an in-memory envelope relay shared by all test sessions.
type memTransport struct {
	mu      sync.Mutex
	inboxes map[domain.Username][]domain.InboxMessage
	groups  map[domain.GroupID]*memGroup
	nextID  int
}

func newMemTransport() *memTransport {
	return &memTransport{
		inboxes: make(map[domain.Username][]domain.InboxMessage),
		groups:  make(map[domain.GroupID]*memGroup),
	}
}

func (t *memTransport) SubmitDirectEnvelope(_ context.Context, sender, recipient domain.Username, msg domain.DirectMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inboxes[recipient] = append(t.inboxes[recipient], domain.InboxMessage{Sender: sender, Message: msg})
	return nil
}

func (t *memTransport) FetchInbox(_ context.Context, me domain.Username) ([]domain.InboxMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.inboxes[me]
	t.inboxes[me] = nil
	return msgs, nil
}

func (t *memTransport) CreateGroup(_ context.Context, creator domain.Username, name string, members []domain.Username, dist domain.KeyDistribution) (domain.Group, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := domain.GroupID(fmt.Sprintf("g%d", t.nextID))
	all := append(append([]domain.Username{}, members...), creator)
	g := domain.Group{ID: id, Name: name, Members: all, Distributor: creator}
	t.groups[id] = &memGroup{group: g, dist: dist}
	return g, nil
}

func (t *memTransport) ListGroups(_ context.Context, me domain.Username) ([]domain.Group, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.Group
	for _, g := range t.groups {
		if _, ok := g.dist[me]; ok {
			out = append(out, g.group)
		}
	}
	return out, nil
}

func (t *memTransport) FetchGroupShare(_ context.Context, id domain.GroupID, me domain.Username) (domain.Envelope, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.groups[id]
	if !ok {
		return domain.Envelope{}, domain.ErrNoSuchGroup
	}
	share, ok := g.dist[me]
	if !ok {
		return domain.Envelope{}, domain.ErrMemberNotFound
	}
	return share, nil
}

func (t *memTransport) SubmitGroupEnvelope(_ context.Context, sender domain.Username, id domain.GroupID, env domain.Envelope) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.groups[id]
	if !ok {
		return domain.ErrNoSuchGroup
	}
	g.msgs = append(g.msgs, domain.GroupMessage{Sender: sender, Envelope: env})
	return nil
}

func (t *memTransport) FetchGroupMessages(_ context.Context, id domain.GroupID) ([]domain.GroupMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.groups[id]
	if !ok {
		return nil, domain.ErrNoSuchGroup
	}
	return append([]domain.GroupMessage{}, g.msgs...), nil
}

func (t *memTransport) RotateGroupDistribution(_ context.Context, rotator domain.Username, id domain.GroupID, dist domain.KeyDistribution) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.groups[id]
	if !ok {
		return domain.ErrNoSuchGroup
	}
	g.dist = dist
	g.group.Distributor = rotator
	return nil
}

var _ domain.Transport = (*memTransport)(nil)

// memNotifier pushes scripted events.
type memNotifier struct {
	ch chan domain.Event
}

func newMemNotifier() *memNotifier {
	return &memNotifier{ch: make(chan domain.Event, 16)}
}

func (n *memNotifier) Events(_ context.Context, _ domain.Username) (<-chan domain.Event, error) {
	return n.ch, nil
}

var _ domain.Notifier = (*memNotifier)(nil)
