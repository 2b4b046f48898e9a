package domain

import (
	"encoding/base64"
	"encoding/json"
)

// PublicKey is a Curve25519 public key used for authenticated box encryption.
type PublicKey [32]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// MarshalJSON encodes the key as standard base64, matching the wire format
// the directory serves.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(p[:]))
}

// UnmarshalJSON decodes a base64 string into the fixed-size key.
func (p *PublicKey) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	if len(raw) != len(p) {
		return ErrBadKeyLength
	}
	copy(p[:], raw)
	return nil
}

// PrivateKey is a Curve25519 private key. It never crosses the wire in
// plaintext; at rest it only exists inside an encrypted key blob.
type PrivateKey [32]byte

// Slice returns the key as a []byte.
func (k PrivateKey) Slice() []byte { return k[:] }

// Identity is the local keypair for one logged-in session.
type Identity struct {
	Public  PublicKey
	Private PrivateKey
}

// GroupKey is the symmetric secret shared by all current members of a group.
type GroupKey [32]byte

// Slice returns the key as a []byte.
func (g GroupKey) Slice() []byte { return g[:] }
