package ports

import (
	"context"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
)

// CheckoutInput carries the checkout request. IdempotencyKey is optional; when
// present, retries with the same key replay the stored order instead of
// debiting stock twice.
type CheckoutInput struct {
	User           domain.Customer
	IdempotencyKey string
}

// Service exposes the order use cases to adapters.
type Service interface {
	ProcessNewOrder(ctx context.Context, user domain.Customer, lines []cartdomain.Line) (*domain.Order, error)
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	GetOrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
}
