package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used in production. Tests construct a
// hasher with bcrypt.MinCost to stay fast.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies plaintext passwords with bcrypt. The
// salt and work factor are embedded in the produced hash, so verification
// needs no state beyond the stored hash itself.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a one-way hash of the plaintext. A failure here is a resource
// problem, not a validation problem, and is surfaced as an internal error by
// callers.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// is constant-time. A malformed stored hash verifies as false rather than
// erroring, so callers treat it like any other mismatch.
func (h *PasswordHasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
