package application

import (
	"errors"
	"fmt"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
	"github.com/libreria/bookstore-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a user invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrDuplicateEmail signals a create/update collides with an existing
	// user's email. It is the ports sentinel so adapter-level unique-index
	// violations and the use-case check surface as the same error.
	ErrDuplicateEmail = ports.ErrDuplicateEmail
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidRole) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
