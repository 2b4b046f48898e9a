// Package vault manages the lifecycle of the local identity keypair:
// generation at registration, password-protected storage, unlocking at
// login and removal on "forget me". The private key only ever leaves the
// vault inside an authenticated encrypted blob.
package vault

import (
	"golang.org/x/crypto/curve25519"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
)

// Vault binds identity key handling to a local blob store. One blob is kept
// per username; it is replaced wholesale, never mutated in place.
type Vault struct {
	blobs domain.BlobStore
}

// New returns a vault backed by the given blob store.
func New(blobs domain.BlobStore) *Vault { return &Vault{blobs: blobs} }

// Exists reports whether an encrypted blob is stored for username.
func (v *Vault) Exists(username domain.Username) (bool, error) {
	_, ok, err := v.blobs.Get(username.String())
	return ok, err
}

// Create generates a fresh keypair, locks the private key under password
// and persists the blob for username. Returns the new identity.
func (v *Vault) Create(username domain.Username, password string) (domain.Identity, error) {
	id, err := crypto.GenerateKeypair()
	if err != nil {
		return domain.Identity{}, err
	}
	blob, err := Lock(id.Private, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := v.blobs.Put(username.String(), blob.Encode()); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Open loads and unlocks the stored blob for username. The public key is
// recomputed from the private scalar, so the identity is usable without a
// directory round-trip. Fails with domain.ErrBlobAbsent when no blob is
// stored, domain.ErrBadPasswordOrCorrupted when unlocking fails.
func (v *Vault) Open(username domain.Username, password string) (domain.Identity, error) {
	raw, ok, err := v.blobs.Get(username.String())
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrBlobAbsent
	}
	blob, err := DecodeBlob(raw)
	if err != nil {
		return domain.Identity{}, err
	}
	priv, err := Unlock(blob, password)
	if err != nil {
		return domain.Identity{}, err
	}

	pub, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		crypto.Wipe(priv[:])
		return domain.Identity{}, domain.ErrBadPasswordOrCorrupted
	}
	var id domain.Identity
	id.Private = priv
	copy(id.Public[:], pub)
	return id, nil
}

// Export returns the raw serialised blob for backup. The blob stays
// encrypted; exporting it does not weaken the password protection.
func (v *Vault) Export(username domain.Username) ([]byte, error) {
	raw, ok, err := v.blobs.Get(username.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBlobAbsent
	}
	return raw, nil
}

// Import stores a previously exported blob for username, replacing any
// existing one. The blob is validated structurally but not unlocked.
func (v *Vault) Import(username domain.Username, raw []byte) error {
	if _, err := DecodeBlob(raw); err != nil {
		return err
	}
	return v.blobs.Put(username.String(), raw)
}

// Forget removes the stored blob for username. Without a backup the
// identity is unrecoverable afterwards.
func (v *Vault) Forget(username domain.Username) error {
	return v.blobs.Delete(username.String())
}
