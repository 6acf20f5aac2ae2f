package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	if !CheckPassword(hash, "pw1") {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if CheckPassword("not-a-hash", "pw1") {
		t.Error("CheckPassword should reject a malformed hash")
	}
}
