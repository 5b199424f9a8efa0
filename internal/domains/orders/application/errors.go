package application

import (
	"errors"
	"fmt"

	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInsufficientStock signals a line requested more than the live stock,
	// or referenced a book the catalog no longer has.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCartNotCleared signals the order was committed but the cart could not
	// be cleared. Checkout returns the committed order alongside it; callers
	// must not treat it as a failed order.
	ErrCartNotCleared = errors.New("cart not cleared after checkout")
)

func cartNotCleared(err error) error {
	return fmt.Errorf("%w: %w", ErrCartNotCleared, err)
}

func insufficientStock(title string) error {
	return fmt.Errorf("%w for book %q", ErrInsufficientStock, title)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCart) || errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
