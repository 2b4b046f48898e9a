package domain

import "errors"

var (
	// ErrBadPasswordOrCorrupted means a private-key blob failed to
	// authenticate: wrong password, or the blob was tampered with.
	ErrBadPasswordOrCorrupted = errors.New("bad password or corrupted key blob")

	// ErrDecryptionFailed means a message envelope failed to authenticate.
	// Callers render a placeholder and keep the conversation alive.
	ErrDecryptionFailed = errors.New("message decryption failed")

	// ErrGroupKeyUnwrapFailed means a member's wrapped group key could not
	// be opened; the group is unusable until a fresh share is obtained.
	ErrGroupKeyUnwrapFailed = errors.New("group key share decryption failed")

	// ErrRecipientNotFound is a directory miss for a message recipient.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrMemberNotFound is a directory miss for a group member; the member
	// is skipped with a warning rather than aborting the operation.
	ErrMemberNotFound = errors.New("group member not found")

	// ErrNotLoggedIn is returned by session operations that need an
	// unlocked identity.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNoSuchGroup means no cached key exists for the group.
	ErrNoSuchGroup = errors.New("no such group")

	// ErrBlobAbsent means no encrypted key blob exists for the identity.
	ErrBlobAbsent = errors.New("no stored key blob")

	// ErrBadKeyLength is returned when decoded key material has the wrong size.
	ErrBadKeyLength = errors.New("bad key length")

	// ErrEmptyMessage means a send was attempted with neither text nor an
	// attachment.
	ErrEmptyMessage = errors.New("empty message")
)
