package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"skkevents/internal/domain"
)

// bcrypt ignores input past this many bytes, so longer passwords are rejected instead of truncated.
const maxPasswordBytes = 72

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher hashes admin passwords. Costs bcrypt would refuse become bcrypt.DefaultCost.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns nil only when password matches hash.
func (h *bcryptHasher) Compare(hash, password string) error {
	if len(password) > maxPasswordBytes {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
