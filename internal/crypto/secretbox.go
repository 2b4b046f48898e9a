package crypto

import (
	"golang.org/x/crypto/nacl/secretbox"

	"shadowtalk/internal/domain"
)

// SealSecretbox symmetrically encrypts plaintext under key with the given
// nonce. The nonce is carried in the envelope; callers must never reuse one
// under the same key, which is why sealing sites generate it fresh.
func SealSecretbox(plaintext []byte, nonce [NonceBytes]byte, key [KeyBytes]byte) domain.Envelope {
	ct := secretbox.Seal(nil, plaintext, &nonce, &key)
	return domain.Envelope{Ciphertext: ct, Nonce: nonce[:]}
}

// OpenSecretbox authenticates and decrypts a symmetric envelope. Returns
// domain.ErrDecryptionFailed on authentication failure.
func OpenSecretbox(env domain.Envelope, key [KeyBytes]byte) ([]byte, error) {
	nonce, ok := nonceFrom(env.Nonce)
	if !ok {
		return nil, domain.ErrDecryptionFailed
	}
	plain, ok := secretbox.Open(nil, env.Ciphertext, &nonce, &key)
	if !ok {
		return nil, domain.ErrDecryptionFailed
	}
	return plain, nil
}
