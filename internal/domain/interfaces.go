package domain

import "context"

// Directory resolves usernames to public keys and manages account records.
// All confidentiality comes from the envelopes; the directory is trusted
// only for liveness.
type Directory interface {
	Register(ctx context.Context, username Username, pub PublicKey) error
	LookupPublicKey(ctx context.Context, username Username) (PublicKey, error)
	DeleteAccount(ctx context.Context, username Username) error
}

// Transport accepts and delivers opaque envelopes and per-group encrypted
// key distributions. It never sees plaintext or unwrapped group keys. The
// acting username travels as metadata; authenticating it is the concern of
// the external account layer, not of this interface.
type Transport interface {
	SubmitDirectEnvelope(ctx context.Context, sender, recipient Username, msg DirectMessage) error
	FetchInbox(ctx context.Context, me Username) ([]InboxMessage, error)

	CreateGroup(ctx context.Context, creator Username, name string, members []Username, dist KeyDistribution) (Group, error)
	ListGroups(ctx context.Context, me Username) ([]Group, error)
	FetchGroupShare(ctx context.Context, id GroupID, me Username) (Envelope, error)
	SubmitGroupEnvelope(ctx context.Context, sender Username, id GroupID, env Envelope) error
	FetchGroupMessages(ctx context.Context, id GroupID) ([]GroupMessage, error)
	RotateGroupDistribution(ctx context.Context, rotator Username, id GroupID, dist KeyDistribution) error
}

// BlobStore is the local persistent key-value store holding one encrypted
// private-key blob per identity.
type BlobStore interface {
	Get(id string) ([]byte, bool, error)
	Put(id string, blob []byte) error
	Delete(id string) error
}

// EventKind says which mailbox an event refers to.
type EventKind string

const (
	// EventDirect signals new direct messages for the user.
	EventDirect EventKind = "direct"
	// EventGroup signals new messages in a group room.
	EventGroup EventKind = "group"
)

// Event is a best-effort "new data available" signal. Its payload is never
// trusted for authenticity or completeness; receipt only triggers a re-poll
// of the pull-based fetch operations.
type Event struct {
	Kind    EventKind `json:"kind"`
	GroupID GroupID   `json:"group_id,omitempty"`
}

// Notifier delivers push events for a user. The channel closes when ctx is
// cancelled or the underlying connection drops.
type Notifier interface {
	Events(ctx context.Context, me Username) (<-chan Event, error)
}
