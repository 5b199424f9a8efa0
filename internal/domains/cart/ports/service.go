package ports

import (
	"context"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

// Service exposes cart use cases to adapters.
type Service interface {
	AddBook(ctx context.Context, userID string, book catalogdomain.Book, quantity int) ([]domain.Line, error)
	RemoveBook(ctx context.Context, userID, bookID string) ([]domain.Line, error)
	Items(ctx context.Context, userID string) ([]domain.Line, error)
	Total(ctx context.Context, userID string) (float64, error)
	Clear(ctx context.Context, userID string) error
}
