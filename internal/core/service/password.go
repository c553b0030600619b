package service

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor applied to every stored password.
const DefaultBcryptCost = 12

// PasswordHasher wraps bcrypt with a fixed, injectable cost so tests can
// trade work for speed. Hashing happens exactly once per password value:
// at registration and on an explicit password change.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted one-way hash of plaintext. Two calls with the same
// input produce different outputs.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. An empty stored hash never
// matches; federated-only identities have no password to compare against.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
