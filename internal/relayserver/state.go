package relayserver

import (
	"fmt"
	"sync"
	"time"

	"shadowtalk/internal/domain"
)

// storedDirect is one queued direct message plus its arrival time, used
// for the expiry sweep.
type storedDirect struct {
	msg        domain.InboxMessage
	receivedAt time.Time
}

// groupRecord is the server-side state of one group: public metadata, the
// current wrapped-key distribution and the message history. The plaintext
// group key never exists here.
type groupRecord struct {
	group domain.Group
	dist  domain.KeyDistribution
	msgs  []domain.GroupMessage
}

// state is the in-memory data store behind the relay. All access goes
// through its mutex.
type state struct {
	mu        sync.Mutex
	accounts  map[domain.Username]domain.PublicKey
	inboxes   map[domain.Username][]storedDirect
	groups    map[domain.GroupID]*groupRecord
	nextGroup int

	// pending events and the channels of parked long-polls per user.
	events  map[domain.Username][]domain.Event
	waiters map[domain.Username][]chan struct{}

	now func() time.Time
}

func newState() *state {
	return &state{
		accounts: make(map[domain.Username]domain.PublicKey),
		inboxes:  make(map[domain.Username][]storedDirect),
		groups:   make(map[domain.GroupID]*groupRecord),
		events:   make(map[domain.Username][]domain.Event),
		waiters:  make(map[domain.Username][]chan struct{}),
		now:      time.Now,
	}
}

func (s *state) register(u domain.Username, pub domain.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[u] = pub
}

func (s *state) lookup(u domain.Username) (domain.PublicKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pub, ok := s.accounts[u]
	return pub, ok
}

func (s *state) deleteAccount(u domain.Username) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, u)
	delete(s.inboxes, u)
	delete(s.events, u)
}

func (s *state) enqueueDirect(sender, recipient domain.Username, msg domain.DirectMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[recipient]; !ok {
		return false
	}
	s.inboxes[recipient] = append(s.inboxes[recipient], storedDirect{
		msg:        domain.InboxMessage{Sender: sender, Message: msg, SentAt: s.now().Unix()},
		receivedAt: s.now(),
	})
	s.pushEventLocked(recipient, domain.Event{Kind: domain.EventDirect})
	return true
}

// drainInbox returns the pending messages for u and clears the queue.
// Expired messages are dropped during the drain, never delivered.
func (s *state) drainInbox(u domain.Username) []domain.InboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued := s.inboxes[u]
	s.inboxes[u] = nil

	now := s.now()
	out := make([]domain.InboxMessage, 0, len(queued))
	for _, item := range queued {
		if exp := item.msg.Message.ExpirySeconds; exp > 0 {
			if now.Sub(item.receivedAt) > time.Duration(exp)*time.Second {
				continue
			}
		}
		out = append(out, item.msg)
	}
	return out
}

func (s *state) createGroup(creator domain.Username, name string, members []domain.Username, dist domain.KeyDistribution) domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGroup++
	id := domain.GroupID(fmt.Sprintf("group-%d", s.nextGroup))
	all := append(append([]domain.Username{}, members...), creator)
	g := domain.Group{ID: id, Name: name, Members: all, Distributor: creator}
	s.groups[id] = &groupRecord{group: g, dist: dist}
	return g
}

func (s *state) listGroups(member domain.Username) []domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Group
	for _, g := range s.groups {
		if _, ok := g.dist[member]; ok {
			out = append(out, g.group)
		}
	}
	return out
}

func (s *state) groupShare(id domain.GroupID, member domain.Username) (domain.Envelope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return domain.Envelope{}, false
	}
	share, ok := g.dist[member]
	return share, ok
}

func (s *state) appendGroupMessage(id domain.GroupID, sender domain.Username, env domain.Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return false
	}
	g.msgs = append(g.msgs, domain.GroupMessage{Sender: sender, Envelope: env, SentAt: s.now().Unix()})
	for member := range g.dist {
		if member == sender {
			continue
		}
		s.pushEventLocked(member, domain.Event{Kind: domain.EventGroup, GroupID: id})
	}
	return true
}

func (s *state) groupMessages(id domain.GroupID) ([]domain.GroupMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, false
	}
	return append([]domain.GroupMessage{}, g.msgs...), true
}

// rotateDistribution replaces the group's wrapped-key map wholesale and
// records the rotator as the new distributor.
func (s *state) rotateDistribution(id domain.GroupID, rotator domain.Username, dist domain.KeyDistribution) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return false
	}
	g.dist = dist
	g.group.Distributor = rotator

	members := make([]domain.Username, 0, len(dist))
	for m := range dist {
		members = append(members, m)
		if m != rotator {
			s.pushEventLocked(m, domain.Event{Kind: domain.EventGroup, GroupID: id})
		}
	}
	g.group.Members = members
	return true
}

// takeEvents drains pending events for u, or registers a waiter channel
// that fires when the next event arrives.
func (s *state) takeEvents(u domain.Username) ([]domain.Event, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if evs := s.events[u]; len(evs) > 0 {
		s.events[u] = nil
		return evs, nil
	}
	ch := make(chan struct{}, 1)
	s.waiters[u] = append(s.waiters[u], ch)
	return nil, ch
}

// pushEventLocked queues an event and wakes parked long-polls. Callers
// hold s.mu.
func (s *state) pushEventLocked(u domain.Username, ev domain.Event) {
	s.events[u] = append(s.events[u], ev)
	for _, ch := range s.waiters[u] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.waiters[u] = nil
}
