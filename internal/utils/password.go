package utils

import (
	"fmt"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash of the plaintext password at the
// default cost. Only the hash is ever stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: bcrypt hashing failed: %s", apperrors.ErrInternal, err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext password matches the
// stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
