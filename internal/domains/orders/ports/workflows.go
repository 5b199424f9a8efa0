package ports

import (
	"context"

	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator starts the checkout flow, either inline or on a
// durable workflow engine.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
}
