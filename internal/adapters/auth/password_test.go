package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skkevents/internal/domain"
)

func TestBcryptHasher_Hash_and_Compare(t *testing.T) {
	h := NewBcryptHasher(4)
	password := "my-secret-password"

	hash, err := h.Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), "hash should use the configured cost")
	assert.NotContains(t, hash, password)

	require.NoError(t, h.Compare(hash, password))
}

func TestBcryptHasher_Compare_wrong_password(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("correct")
	require.NoError(t, err)

	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestBcryptHasher_Hash_is_salted(t *testing.T) {
	h := NewBcryptHasher(4)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_invalid_cost_uses_default(t *testing.T) {
	h := NewBcryptHasher(0)
	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
}

func TestBcryptHasher_rejects_overlong_password(t *testing.T) {
	h := NewBcryptHasher(4)
	long := strings.Repeat("a", 73)

	_, err := h.Hash(long)
	assert.ErrorIs(t, err, domain.ErrValidation)

	hash, err := h.Hash(long[:72])
	require.NoError(t, err)
	assert.Error(t, h.Compare(hash, long))
}
