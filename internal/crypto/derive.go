package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
)

// KeyBytes is the size of every symmetric key and Curve25519 key in use.
const KeyBytes = 32

// StretchPassword hashes a UTF-8 password with SHA-512 and truncates to 32
// bytes, yielding the symmetric key that wraps the private key at rest.
//
// This is deliberately a single unsalted pass: the stored blob format
// predates this client and has to stay readable. It is not a safe KDF by
// modern standards; see DESIGN.md.
func StretchPassword(password string) (key [KeyBytes]byte) {
	sum := sha512.Sum512([]byte(password))
	copy(key[:], sum[:KeyBytes])
	return key
}

// DeriveSubkey hashes base‖nonce with SHA-256 and truncates to 32 bytes.
// Pure function: one longer-lived secret plus a per-message nonce yields a
// fresh-looking key per message.
func DeriveSubkey(base []byte, nonce []byte) (key [KeyBytes]byte) {
	h := sha256.New()
	h.Write(base)
	h.Write(nonce)
	copy(key[:], h.Sum(nil)[:KeyBytes])
	return key
}
