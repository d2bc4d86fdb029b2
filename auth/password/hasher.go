// Package password checks login passwords against a configured credential.
//
// A credential is either a bcrypt hash or, for local development, a
// plaintext password. Hashes are recognised by their "$2" prefix.
package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match.
var ErrMismatch = errors.New("password: invalid password")

// DefaultCost is the bcrypt cost used by Hash.
const DefaultCost = 12

// Hash returns a bcrypt hash of password.
func Hash(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 bytes (bcrypt limit)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// IsHash reports whether stored looks like a bcrypt hash.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// Verify compares password with stored, which is a bcrypt hash or a plaintext
// value. Plaintext comparison runs in constant time.
func Verify(password, stored string) error {
	if stored == "" {
		return ErrMismatch
	}
	if IsHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return ErrMismatch
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(stored)) != 1 {
		return ErrMismatch
	}
	return nil
}
