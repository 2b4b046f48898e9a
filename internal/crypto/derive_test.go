package crypto_test

import (
	"bytes"
	"testing"

	"shadowtalk/internal/crypto"
)

func TestStretchPassword_Deterministic(t *testing.T) {
	a := crypto.StretchPassword("hunter2")
	b := crypto.StretchPassword("hunter2")
	if a != b {
		t.Fatal("same password produced different keys")
	}
	c := crypto.StretchPassword("hunter3")
	if a == c {
		t.Fatal("different passwords produced the same key")
	}
}

func TestDeriveSubkey_DistinctPerNonce(t *testing.T) {
	base := bytes.Repeat([]byte{0x42}, 32)

	k1 := crypto.DeriveSubkey(base, []byte("nonce-1"))
	k2 := crypto.DeriveSubkey(base, []byte("nonce-2"))
	if k1 == k2 {
		t.Fatal("distinct nonces produced the same subkey")
	}

	again := crypto.DeriveSubkey(base, []byte("nonce-1"))
	if k1 != again {
		t.Fatal("subkey derivation is not deterministic")
	}
}

func TestDeriveSubkey_BaseMatters(t *testing.T) {
	nonce := []byte("fixed-nonce")
	k1 := crypto.DeriveSubkey([]byte("base-a"), nonce)
	k2 := crypto.DeriveSubkey([]byte("base-b"), nonce)
	if k1 == k2 {
		t.Fatal("distinct base secrets produced the same subkey")
	}
}
