package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidEmail rejects addresses that do not look like mailbox@host.tld.
var ErrInvalidEmail = errors.New("invalid email format")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is a format-validated address. Uniqueness across users is enforced by
// the use-case layer against the repository, not here.
type Email struct {
	value string
}

// NewEmail validates and normalizes the address.
func NewEmail(raw string) (Email, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(raw) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: raw}, nil
}

func (e Email) String() string {
	return e.value
}
