package session

import (
	"context"
	"errors"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
	"shadowtalk/internal/protocol/group"
)

// GroupView is a read-only snapshot of one cached group.
type GroupView struct {
	ID      domain.GroupID
	Name    string
	Members []domain.Username
}

// GroupText is one decrypted (or placeholder) group message.
type GroupText struct {
	Sender    domain.Username
	Text      string
	Decrypted bool
	SentAt    int64
}

// CreateGroup generates a fresh group key, wraps it for every resolvable
// member (the creator included) and submits the distribution. Members the
// directory cannot resolve are skipped and returned, not fatal. The new
// key is cached for the session.
func (s *Session) CreateGroup(ctx context.Context, name string, members []domain.Username) (GroupView, []domain.Username, error) {
	me, id, err := s.currentIdentity()
	if err != nil {
		return GroupView{}, nil, err
	}

	key, err := group.NewKey()
	if err != nil {
		return GroupView{}, nil, err
	}

	all := append([]domain.Username{}, members...)
	all = append(all, me)
	dist, resolved, skipped, err := s.buildDistribution(ctx, key, all, id.Private)
	if err != nil {
		return GroupView{}, skipped, err
	}

	created, err := s.transport.CreateGroup(ctx, me, name, members, dist)
	if err != nil {
		return GroupView{}, skipped, err
	}

	entry := &groupEntry{name: created.Name, members: resolved, key: key}
	s.mu.Lock()
	s.groups[created.ID] = entry
	s.mu.Unlock()

	s.log.Info("group created", "group", created.ID, "name", created.Name, "members", len(resolved), "skipped", len(skipped))
	return GroupView{ID: created.ID, Name: created.Name, Members: resolved}, skipped, nil
}

// RefreshGroups lists the account's groups at the transport, unwraps the
// own key share of each and caches the recovered keys. A group whose share
// cannot be unwrapped is left out of the cache and logged; it stays
// unusable until a fresh share is obtained.
func (s *Session) RefreshGroups(ctx context.Context) ([]GroupView, error) {
	me, id, err := s.currentIdentity()
	if err != nil {
		return nil, err
	}

	list, err := s.transport.ListGroups(ctx, me)
	if err != nil {
		return nil, err
	}

	views := make([]GroupView, 0, len(list))
	for _, g := range list {
		share, err := s.transport.FetchGroupShare(ctx, g.ID, me)
		if err != nil {
			s.log.Warn("no key share for group", "group", g.ID, "err", err)
			continue
		}
		distributorPub, err := s.directory.LookupPublicKey(ctx, g.Distributor)
		if err != nil {
			s.log.Warn("group key distributor unknown", "group", g.ID, "distributor", g.Distributor)
			continue
		}
		key, err := group.UnwrapKey(share, distributorPub, id.Private)
		if err != nil {
			s.log.Warn("group key share failed to open", "group", g.ID, "err", err)
			continue
		}

		s.mu.Lock()
		entry, ok := s.groups[g.ID]
		if !ok {
			entry = &groupEntry{}
			s.groups[g.ID] = entry
		}
		s.mu.Unlock()

		entry.mu.Lock()
		entry.name = g.Name
		entry.members = g.Members
		entry.key = key
		entry.mu.Unlock()

		views = append(views, GroupView{ID: g.ID, Name: g.Name, Members: g.Members})
	}
	return views, nil
}

// Groups returns the cached groups.
func (s *Session) Groups() []GroupView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]GroupView, 0, len(s.groups))
	for id, e := range s.groups {
		e.mu.Lock()
		out = append(out, GroupView{ID: id, Name: e.name, Members: append([]domain.Username{}, e.members...)})
		e.mu.Unlock()
	}
	return out
}

// SendGroup encrypts text under a key derived from the group's current key
// and submits the envelope to the group room.
func (s *Session) SendGroup(ctx context.Context, id domain.GroupID, text []byte) error {
	me, _, err := s.currentIdentity()
	if err != nil {
		return err
	}
	entry, err := s.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	key := entry.key
	entry.mu.Unlock()

	env, err := group.SealMessage(text, key)
	if err != nil {
		return err
	}
	return s.transport.SubmitGroupEnvelope(ctx, me, id, env)
}

// FetchGroupMessages pulls the group's messages and decrypts them under
// the cached key. Messages sealed under another key (for example before a
// rotation this member has picked up) become placeholders.
func (s *Session) FetchGroupMessages(ctx context.Context, id domain.GroupID) ([]GroupText, error) {
	if _, _, err := s.currentIdentity(); err != nil {
		return nil, err
	}
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	key := entry.key
	entry.mu.Unlock()

	msgs, err := s.transport.FetchGroupMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]GroupText, 0, len(msgs))
	for _, m := range msgs {
		gt := GroupText{Sender: m.Sender, Decrypted: true, SentAt: m.SentAt}
		plain, err := group.OpenMessage(m.Envelope, key)
		if err != nil {
			gt.Text = PlaceholderText
			gt.Decrypted = false
		} else {
			gt.Text = string(plain)
		}
		out = append(out, gt)
	}
	return out, nil
}

// RotateGroupKey generates a fresh group key, re-wraps it for every
// current member and replaces the distribution at the transport. Only
// after the transport acknowledges is the cached key swapped, so an
// abandoned rotation leaves the old key in place. Messages sealed under
// the old key become unrecoverable for members without a cached copy;
// that is the point of rotating.
func (s *Session) RotateGroupKey(ctx context.Context, id domain.GroupID) ([]domain.Username, error) {
	me, ident, err := s.currentIdentity()
	if err != nil {
		return nil, err
	}
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	newKey, err := group.NewKey()
	if err != nil {
		return nil, err
	}
	dist, resolved, skipped, err := s.buildDistribution(ctx, newKey, entry.members, ident.Private)
	if err != nil {
		return skipped, err
	}
	if err := s.transport.RotateGroupDistribution(ctx, me, id, dist); err != nil {
		return skipped, err
	}

	crypto.Wipe(entry.key[:])
	entry.key = newKey
	entry.members = resolved
	s.log.Info("group key rotated", "group", id, "members", len(resolved), "skipped", len(skipped))
	return skipped, nil
}

// buildDistribution resolves each member and wraps key for those found.
// Directory misses are collected, not fatal; any other lookup failure
// aborts so a transient outage cannot silently shrink a group.
func (s *Session) buildDistribution(ctx context.Context, key domain.GroupKey, members []domain.Username, priv domain.PrivateKey) (domain.KeyDistribution, []domain.Username, []domain.Username, error) {
	dist := make(domain.KeyDistribution, len(members))
	resolved := make([]domain.Username, 0, len(members))
	var skipped []domain.Username

	for _, m := range members {
		if _, ok := dist[m]; ok {
			continue
		}
		pub, err := s.directory.LookupPublicKey(ctx, m)
		if errors.Is(err, domain.ErrRecipientNotFound) {
			s.log.Warn("member not found, skipping", "member", m)
			skipped = append(skipped, m)
			continue
		}
		if err != nil {
			return nil, nil, skipped, err
		}
		share, err := group.WrapKey(key, pub, priv)
		if err != nil {
			return nil, nil, skipped, err
		}
		dist[m] = share
		resolved = append(resolved, m)
	}
	return dist, resolved, skipped, nil
}

// entry returns the cached entry for id.
func (s *Session) entry(id domain.GroupID) (*groupEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNoSuchGroup
	}
	return e, nil
}
