package application

import (
	"errors"
	"fmt"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
)

// ErrInvalidInput signals the request violated a cart invariant.
var ErrInvalidInput = errors.New("invalid cart input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
