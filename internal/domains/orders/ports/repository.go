package ports

import (
	"context"
	"errors"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders. Save assigns the id and timestamp; persisting
// the order is the commit point of a placement, so it must be the last write.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}

// BookInventory is the slice of the catalog repository the order use case
// needs: fresh reads for validation and the atomic stock primitives for the
// commit pass. The catalog adapters satisfy it structurally.
type BookInventory interface {
	FindByID(ctx context.Context, id string) (*catalogdomain.Book, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
	IncrementStock(ctx context.Context, id string, quantity int) error
}

// Carts is the narrow cart contract checkout needs to drain a user's cart.
// The cart repository adapters satisfy it structurally.
type Carts interface {
	Get(ctx context.Context, userID string) ([]cartdomain.Line, error)
	Clear(ctx context.Context, userID string) error
}
