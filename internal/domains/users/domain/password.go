package domain

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword rejects passwords below the minimum length.
var ErrWeakPassword = errors.New("password must be at least 8 characters")

const minPasswordLength = 8

// Password is a one-way credential hash. Valid instances come only from
// NewPassword (hashing a plaintext) or PasswordFromHash (rehydrating a stored
// hash); there is no other constructor path.
type Password struct {
	hash string
}

// NewPassword gates on minimum strength and hashes the plaintext with bcrypt.
func NewPassword(plaintext string) (Password, error) {
	if len(plaintext) < minPasswordLength {
		return Password{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(hash)}, nil
}

// PasswordFromHash rehydrates a stored hash loaded from persistence.
func PasswordFromHash(hash string) Password {
	return Password{hash: hash}
}

// Compare reports whether the plaintext matches the stored hash.
func (p Password) Compare(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plaintext)) == nil
}

// String exposes the hash for persistence, never the plaintext.
func (p Password) String() string {
	return p.hash
}
