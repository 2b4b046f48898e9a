package domain

// Username identifies an account registered with the directory.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short human-verifiable digest of a public key,
// formatted as five space-separated groups of four hex characters.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// GroupID identifies a group at the transport.
type GroupID string

// String returns the string form of the group identifier.
func (id GroupID) String() string { return string(id) }

// Envelope is one encrypted message unit: ciphertext plus the nonce it was
// sealed under. It is self-contained; decryption needs only the envelope and
// key material both ends know independently.
type Envelope struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
}

// DirectMessage is the wire payload for a 1:1 message. Text and Attachment
// are each optional, but a valid message carries at least one of them.
// The metadata fields travel outside the cryptographic envelope.
type DirectMessage struct {
	Text          *Envelope `json:"text,omitempty"`
	Attachment    *Envelope `json:"attachment,omitempty"`
	Filename      string    `json:"filename,omitempty"`
	MimeType      string    `json:"mime_type,omitempty"`
	BurnAfterRead bool      `json:"burn_after_read,omitempty"`
	ExpirySeconds int       `json:"expiry_seconds,omitempty"`
}

// Valid reports whether the message carries at least one payload kind.
func (m DirectMessage) Valid() bool { return m.Text != nil || m.Attachment != nil }

// InboxMessage is a direct message as delivered: payload plus the sender
// name the transport attached out-of-band.
type InboxMessage struct {
	Sender  Username      `json:"sender"`
	Message DirectMessage `json:"message"`
	SentAt  int64         `json:"sent_at"`
}

// GroupMessage is a group envelope as delivered to a member.
type GroupMessage struct {
	Sender   Username `json:"sender"`
	Envelope Envelope `json:"envelope"`
	SentAt   int64    `json:"sent_at"`
}
