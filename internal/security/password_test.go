package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("maria123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "maria123" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "maria123"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != bcrypt.MinCost {
		t.Fatalf("expected cost %d, got %d (%v)", bcrypt.MinCost, cost, err)
	}
}

func TestBcryptHasher_InvalidCost(t *testing.T) {
	if _, err := (BcryptHasher{Cost: 99}).Hash("x"); err == nil {
		t.Fatalf("expected error for cost above bcrypt.MaxCost")
	}
}
