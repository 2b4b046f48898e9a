// Package trust implements trust-on-first-use verification of contact
// public keys. A contact's fingerprint is pinned on first contact; a later
// mismatch updates the pin and surfaces a warning, it never blocks message
// processing.
package trust

import (
	"sync"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
)

// Status classifies the outcome of a trust check.
type Status int

const (
	// FirstSeen means no fingerprint was pinned for the contact yet.
	FirstSeen Status = iota
	// Unchanged means the observed key matches the pinned fingerprint.
	Unchanged
	// KeyChanged means the observed key differs from the pin. The pin has
	// been updated; the caller should warn the user.
	KeyChanged
)

// Result reports one trust check. Previous is set only for KeyChanged.
type Result struct {
	Status      Status
	Fingerprint domain.Fingerprint
	Previous    domain.Fingerprint
}

// Table pins at most one fingerprint per contact. It is session-owned,
// in-memory only, and safe for concurrent use. Updates are atomic per
// check: a result is never returned with a half-applied pin.
type Table struct {
	mu   sync.Mutex
	pins map[domain.Username]domain.Fingerprint
}

// NewTable returns an empty trust table.
func NewTable() *Table {
	return &Table{pins: make(map[domain.Username]domain.Fingerprint)}
}

// Check compares the observed public key against the pinned fingerprint for
// contact, pinning or re-pinning as needed.
func (t *Table) Check(contact domain.Username, observed domain.PublicKey) Result {
	fp := crypto.Fingerprint(observed)

	t.mu.Lock()
	defer t.mu.Unlock()

	pinned, ok := t.pins[contact]
	switch {
	case !ok:
		t.pins[contact] = fp
		return Result{Status: FirstSeen, Fingerprint: fp}
	case pinned == fp:
		return Result{Status: Unchanged, Fingerprint: fp}
	default:
		t.pins[contact] = fp
		return Result{Status: KeyChanged, Fingerprint: fp, Previous: pinned}
	}
}

// Pinned returns the fingerprint currently pinned for contact, if any.
func (t *Table) Pinned(contact domain.Username) (domain.Fingerprint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fp, ok := t.pins[contact]
	return fp, ok
}

// Reset drops every pin. Called on logout so the next session starts from
// a clean first-use state.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pins = make(map[domain.Username]domain.Fingerprint)
}
