package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tableforge/tableforge/internal/shared"
)

// HashPassword produces a salted one-way hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credentials: hash password: %w", err)
	}
	return string(hash), nil
}

// MatchPassword compares a candidate against the stored hash. bcrypt performs
// the comparison without leaking timing on mismatch position.
func MatchPassword(hash, candidate string) error {
	// A malformed stored hash must not authenticate either, so every bcrypt
	// failure collapses to the same error.
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		return shared.ErrInvalidPassword
	}
	return nil
}
