package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.True(t, h.Verify("pw123", hash))
	assert.False(t, h.Verify("pw124", hash))
	assert.False(t, h.Verify("", hash))
}

func TestPasswordHasher_DistinctSaltsPerCall(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	// Salts are generated per call, so identical inputs produce distinct
	// hashes that both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestPasswordHasher_MalformedStoredHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pw123", ""))
	assert.False(t, h.Verify("pw123", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw123", "$2a$garbage"))
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	h := NewPasswordHasher(-1)
	assert.Equal(t, DefaultBcryptCost, h.cost)

	h = NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Equal(t, DefaultBcryptCost, h.cost)
}
