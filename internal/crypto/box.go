package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"shadowtalk/internal/domain"
)

// NonceBytes is the nonce length shared by box and secretbox envelopes.
const NonceBytes = 24

// NewNonce returns a fresh random 24-byte nonce.
func NewNonce() (nonce [NonceBytes]byte, err error) {
	_, err = rand.Read(nonce[:])
	return nonce, err
}

// SealBox encrypts plaintext for the holder of peerPub, authenticated by
// priv, under a fresh nonce. The returned envelope is self-describing.
func SealBox(plaintext []byte, peerPub domain.PublicKey, priv domain.PrivateKey) (domain.Envelope, error) {
	nonce, err := NewNonce()
	if err != nil {
		return domain.Envelope{}, err
	}
	pub := [32]byte(peerPub)
	sec := [32]byte(priv)
	ct := box.Seal(nil, plaintext, &nonce, &pub, &sec)
	return domain.Envelope{Ciphertext: ct, Nonce: nonce[:]}, nil
}

// OpenBox authenticates and decrypts an envelope sealed by the holder of
// peerPub for the holder of priv. Returns domain.ErrDecryptionFailed on any
// authentication failure; there is no partial output.
func OpenBox(env domain.Envelope, peerPub domain.PublicKey, priv domain.PrivateKey) ([]byte, error) {
	nonce, ok := nonceFrom(env.Nonce)
	if !ok {
		return nil, domain.ErrDecryptionFailed
	}
	pub := [32]byte(peerPub)
	sec := [32]byte(priv)
	plain, ok := box.Open(nil, env.Ciphertext, &nonce, &pub, &sec)
	if !ok {
		return nil, domain.ErrDecryptionFailed
	}
	return plain, nil
}

func nonceFrom(b []byte) (nonce [NonceBytes]byte, ok bool) {
	if len(b) != NonceBytes {
		return nonce, false
	}
	copy(nonce[:], b)
	return nonce, true
}
