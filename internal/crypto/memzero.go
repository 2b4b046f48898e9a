package crypto

import "crypto/subtle"

// Wipe overwrites b with zeros. The constant-time copy keeps the store
// from being optimised away as a dead write.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
