// Package crypto exposes the minimal primitives used by shadowtalk.
//
// Contents
//
//   - Curve25519 box keypair generation (GenerateKeypair)
//   - Password stretching and per-message subkey derivation
//     (StretchPassword, DeriveSubkey)
//   - Authenticated public-key and symmetric envelope sealing
//     (SealBox/OpenBox, SealSecretbox/OpenSecretbox)
//   - Short public-key fingerprints for display (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// All functions operate on fixed-size array types defined in internal/domain
// to avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and rely on Wipe when practical to reduce lifetime in memory.
package crypto
