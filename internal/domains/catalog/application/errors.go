package application

import (
	"errors"
	"fmt"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrEmptyAuthorName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
