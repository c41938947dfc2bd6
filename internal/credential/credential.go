package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials hashes passwords and mints opaque tokens.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	GenerateToken(nBytes int) (string, error)
}

type bcryptCredentials struct {
	cost int
}

// NewBcrypt returns a bcrypt-backed Credentials with the given cost.
// A cost outside bcrypt's valid range falls back to the default.
func NewBcrypt(cost int) Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptCredentials{cost: cost}
}

func (b *bcryptCredentials) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (b *bcryptCredentials) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken returns nBytes of randomness hex-encoded, so the
// resulting string is twice as long as nBytes.
func (b *bcryptCredentials) GenerateToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
