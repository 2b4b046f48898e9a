package direct_test

import (
	"errors"
	"testing"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
	"shadowtalk/internal/protocol/direct"
)

func makeIdentity(t *testing.T) domain.Identity {
	t.Helper()
	id, err := crypto.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	return id
}

func TestSealOpen_RoundTrip(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	env, err := direct.Seal([]byte("hello bob"), bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	plain, err := direct.Open(env, alice.Public, bob.Private)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plain) != "hello bob" {
		t.Fatalf("got %q, want %q", plain, "hello bob")
	}
}

func TestOpen_WrongPrivateKeyFails(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	eve := makeIdentity(t)

	env, err := direct.Seal([]byte("for bob only"), bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := direct.Open(env, alice.Public, eve.Private); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestSeal_FreshNoncePerEnvelope(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	e1, err := direct.Seal([]byte("m"), bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	e2, err := direct.Seal([]byte("m"), bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if string(e1.Nonce) == string(e2.Nonce) {
		t.Fatal("two envelopes share a nonce")
	}
}
