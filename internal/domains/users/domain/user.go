package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName   = errors.New("name is required")
	ErrInvalidRole = errors.New("role must be user or admin")
)

// Role gates administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the account aggregate. Password material only ever lives here as a
// bcrypt hash; plaintext never reaches a repository.
type User struct {
	ID           string
	Name         string
	Email        Email
	PasswordHash Password
	Role         Role
}

// Profile is the listing shape: identity fields only, no credential material.
type Profile struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// NewUser builds a user, validating name, email, role, and password strength.
func NewUser(id, name, email, plaintextPassword string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	parsedEmail, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := NewPassword(plaintextPassword)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return &User{ID: id, Name: name, Email: parsedEmail, PasswordHash: hash, Role: role}, nil
}

// Profile projects the user onto its listing shape.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email.String(), Role: u.Role}
}

// Valid reports whether the role is a known member of the enum.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}
