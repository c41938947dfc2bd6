package credential

import (
	"encoding/hex"
	"testing"
)

func TestBcryptHashAndVerify(t *testing.T) {
	creds := NewBcrypt(4)

	hash, err := creds.Hash("Str0ngPass!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Str0ngPass!" {
		t.Fatal("hash must not equal plaintext")
	}
	if !creds.Verify(hash, "Str0ngPass!") {
		t.Fatal("verify with correct password want true")
	}
	if creds.Verify(hash, "wrong-password") {
		t.Fatal("verify with wrong password want false")
	}
}

func TestBcryptCostFallback(t *testing.T) {
	creds := NewBcrypt(99)
	if _, err := creds.Hash("abc"); err != nil {
		t.Fatalf("hash with fallback cost failed: %v", err)
	}
}

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	creds := NewBcrypt(4)

	token, err := creds.GenerateToken(32)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length want 64 got %d", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	other, err := creds.GenerateToken(32)
	if err != nil {
		t.Fatalf("generate second token failed: %v", err)
	}
	if token == other {
		t.Fatal("two generated tokens must differ")
	}

	long, err := creds.GenerateToken(64)
	if err != nil {
		t.Fatalf("generate long token failed: %v", err)
	}
	if len(long) != 128 {
		t.Fatalf("long token length want 128 got %d", len(long))
	}
}
