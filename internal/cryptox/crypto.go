// Package cryptox wraps password hashing.
package cryptox

import (
	"errors"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to stored credentials.
const PasswordCost = 10

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password. Passwords longer than
// MaxPasswordBytes yield common.ErrPasswordTooLong.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Malformed hashes are
// reported as a mismatch together with the underlying error.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
