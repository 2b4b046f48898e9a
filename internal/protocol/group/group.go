// Package group implements shared-key group messaging: wrapping one
// symmetric group key per member with pairwise box encryption, and sealing
// messages under a per-message subkey derived from the group key.
package group

import (
	"crypto/rand"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
)

// NewKey generates a fresh random 256-bit group key, independent of any
// previous key.
func NewKey() (domain.GroupKey, error) {
	var key domain.GroupKey
	if _, err := rand.Read(key[:]); err != nil {
		return domain.GroupKey{}, err
	}
	return key, nil
}

// WrapKey encrypts the group key for exactly one member. The plaintext key
// never crosses the external boundary in any other form.
func WrapKey(key domain.GroupKey, memberPub domain.PublicKey, senderPriv domain.PrivateKey) (domain.Envelope, error) {
	return crypto.SealBox(key.Slice(), memberPub, senderPriv)
}

// UnwrapKey opens a member's wrapped share using the distributing member's
// public key and the member's own private key. Fails with
// domain.ErrGroupKeyUnwrapFailed; the group is unusable for this member
// until a fresh share is obtained.
func UnwrapKey(share domain.Envelope, distributorPub domain.PublicKey, ownPriv domain.PrivateKey) (domain.GroupKey, error) {
	raw, err := crypto.OpenBox(share, distributorPub, ownPriv)
	if err != nil {
		return domain.GroupKey{}, domain.ErrGroupKeyUnwrapFailed
	}
	if len(raw) != crypto.KeyBytes {
		crypto.Wipe(raw)
		return domain.GroupKey{}, domain.ErrGroupKeyUnwrapFailed
	}
	var key domain.GroupKey
	copy(key[:], raw)
	crypto.Wipe(raw)
	return key, nil
}

// SealMessage encrypts plaintext for the group. The cipher key is not the
// group key itself but a subkey derived from it and the fresh nonce, giving
// per-message key separation within the group.
func SealMessage(plaintext []byte, key domain.GroupKey) (domain.Envelope, error) {
	nonce, err := crypto.NewNonce()
	if err != nil {
		return domain.Envelope{}, err
	}
	msgKey := crypto.DeriveSubkey(key.Slice(), nonce[:])
	defer crypto.Wipe(msgKey[:])

	return crypto.SealSecretbox(plaintext, nonce, msgKey), nil
}

// OpenMessage re-derives the subkey from the carried nonce and decrypts.
// Fails with domain.ErrDecryptionFailed, typically a stale group key after
// a rotation the receiver has not picked up, or corruption.
func OpenMessage(env domain.Envelope, key domain.GroupKey) ([]byte, error) {
	msgKey := crypto.DeriveSubkey(key.Slice(), env.Nonce)
	defer crypto.Wipe(msgKey[:])

	return crypto.OpenSecretbox(env, msgKey)
}
