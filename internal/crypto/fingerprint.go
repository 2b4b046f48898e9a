package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"shadowtalk/internal/domain"
)

const (
	fingerprintHexChars = 20
	fingerprintGroup    = 4
)

// Fingerprint returns a short human-verifiable fingerprint of a public key.
//
// It hashes with SHA-256, truncates to the first 20 hex characters and
// formats them as 5 groups of 4 separated by spaces, the form users compare
// out-of-band (or scan as a QR code).
func Fingerprint(pub domain.PublicKey) domain.Fingerprint {
	sum := sha256.Sum256(pub[:])
	hx := hex.EncodeToString(sum[:])[:fingerprintHexChars]

	groups := make([]string, 0, fingerprintHexChars/fingerprintGroup)
	for i := 0; i < len(hx); i += fingerprintGroup {
		groups = append(groups, hx[i:i+fingerprintGroup])
	}
	return domain.Fingerprint(strings.Join(groups, " "))
}
