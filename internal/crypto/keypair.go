package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"shadowtalk/internal/domain"
)

// GenerateKeypair returns a fresh Curve25519 keypair suitable for
// authenticated box encryption. No storage or network side effects.
func GenerateKeypair() (domain.Identity, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		Public:  domain.PublicKey(*pub),
		Private: domain.PrivateKey(*priv),
	}, nil
}
