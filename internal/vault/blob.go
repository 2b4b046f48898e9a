package vault

import (
	"encoding/base64"
	"strings"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
)

// Blob is an encrypted private key at rest: a fresh nonce and the secretbox
// ciphertext of the key under the stretched password.
type Blob struct {
	Nonce      []byte
	Ciphertext []byte
}

// Encode serialises the blob as base64(nonce) ":" base64(ciphertext), the
// on-disk and backup-file format.
func (b Blob) Encode() []byte {
	return []byte(base64.StdEncoding.EncodeToString(b.Nonce) + ":" + base64.StdEncoding.EncodeToString(b.Ciphertext))
}

// DecodeBlob parses the serialised form. A malformed blob is reported as
// domain.ErrBadPasswordOrCorrupted: the caller cannot distinguish
// corruption from tampering, and neither can we.
func DecodeBlob(raw []byte) (Blob, error) {
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return Blob{}, domain.ErrBadPasswordOrCorrupted
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonce) != crypto.NonceBytes {
		return Blob{}, domain.ErrBadPasswordOrCorrupted
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Blob{}, domain.ErrBadPasswordOrCorrupted
	}
	return Blob{Nonce: nonce, Ciphertext: ct}, nil
}

// Lock wraps a private key under the password-derived key with a fresh
// nonce. Side-effect free; the caller persists the blob.
func Lock(priv domain.PrivateKey, password string) (Blob, error) {
	key := crypto.StretchPassword(password)
	defer crypto.Wipe(key[:])

	nonce, err := crypto.NewNonce()
	if err != nil {
		return Blob{}, err
	}
	env := crypto.SealSecretbox(priv.Slice(), nonce, key)
	return Blob{Nonce: env.Nonce, Ciphertext: env.Ciphertext}, nil
}

// Unlock re-derives the wrapping key and opens the blob. The only failure
// mode is domain.ErrBadPasswordOrCorrupted; there is no partial output.
func Unlock(b Blob, password string) (domain.PrivateKey, error) {
	key := crypto.StretchPassword(password)
	defer crypto.Wipe(key[:])

	raw, err := crypto.OpenSecretbox(domain.Envelope{Ciphertext: b.Ciphertext, Nonce: b.Nonce}, key)
	if err != nil {
		return domain.PrivateKey{}, domain.ErrBadPasswordOrCorrupted
	}
	if len(raw) != crypto.KeyBytes {
		crypto.Wipe(raw)
		return domain.PrivateKey{}, domain.ErrBadPasswordOrCorrupted
	}
	var priv domain.PrivateKey
	copy(priv[:], raw)
	crypto.Wipe(raw)
	return priv, nil
}
