package ports

import (
	"context"
	"errors"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
)

var ErrNotFound = errors.New("book not in cart")

// Repository stores one line set per user. Save is a full replace of the set.
type Repository interface {
	Get(ctx context.Context, userID string) ([]domain.Line, error)
	Save(ctx context.Context, userID string, lines []domain.Line) error
	Clear(ctx context.Context, userID string) error
}
