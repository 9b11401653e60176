package service

import (
	"strings"
	"testing"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123" || hash == "" {
		t.Fatalf("expected opaque hash, got %q", hash)
	}
	if !hasher.Verify("pw123", hash) {
		t.Fatalf("expected hash to verify against original password")
	}
	if hasher.Verify("pw124", hash) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestPasswordHasher_SaltPerHash(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for equal passwords")
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(4)

	if hasher.Verify("pw123", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
	if hasher.Verify("pw123", "") {
		t.Fatalf("expected empty hash to fail verification")
	}
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	hasher := NewPasswordHasher(999)

	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
}
