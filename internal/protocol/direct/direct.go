// Package direct implements the 1:1 message envelope protocol:
// authenticated public-key encryption between two identities, one fresh
// nonce per envelope.
package direct

import (
	"golang.org/x/crypto/nacl/box"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
)

// Seal encrypts plaintext for recipientPub, authenticated by senderPriv.
//
// A per-message subkey is derived from the recipient key and the nonce, but
// the box construction below does not consume it; encryption still binds
// the static keypairs directly. The group path feeds its derived subkey
// into the cipher, this path does not. Kept as-is to stay wire-compatible
// with existing peers; see DESIGN.md.
func Seal(plaintext []byte, recipientPub domain.PublicKey, senderPriv domain.PrivateKey) (domain.Envelope, error) {
	nonce, err := crypto.NewNonce()
	if err != nil {
		return domain.Envelope{}, err
	}

	msgKey := crypto.DeriveSubkey(recipientPub.Slice(), nonce[:])
	crypto.Wipe(msgKey[:])

	pub := [32]byte(recipientPub)
	sec := [32]byte(senderPriv)
	ct := box.Seal(nil, plaintext, &nonce, &pub, &sec)
	return domain.Envelope{Ciphertext: ct, Nonce: nonce[:]}, nil
}

// Open authenticates and decrypts an envelope from the holder of senderPub.
// Fails with domain.ErrDecryptionFailed on wrong keys, corruption or a
// nonce collision; callers render a placeholder and continue.
func Open(env domain.Envelope, senderPub domain.PublicKey, recipientPriv domain.PrivateKey) ([]byte, error) {
	return crypto.OpenBox(env, senderPub, recipientPriv)
}
