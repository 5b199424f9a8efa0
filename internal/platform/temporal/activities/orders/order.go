package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

// CheckoutActivityName runs the cart checkout through the order service.
const CheckoutActivityName = "orders.activities.Checkout"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
// The service should be constructed with an idempotency store so activity
// retries replay instead of double-debiting stock.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// Checkout places the order for the user's current cart.
func (a *Activities) Checkout(ctx context.Context, input ordersports.CheckoutInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("checkout activity not initialized", "userId", input.User.ID)
		return nil, errors.New("checkout activity not initialized")
	}
	logger.Info("Checkout activity started", "userId", input.User.ID)
	order, err := a.service.Checkout(ctx, input)
	if err != nil {
		// A clear failure after the commit leaves a placed order behind.
		// Failing the activity would retry the whole checkout, so complete
		// with the committed order instead.
		if order != nil && errors.Is(err, ordersapp.ErrCartNotCleared) {
			logger.Error("Checkout committed but cart not cleared", "userId", input.User.ID, "orderId", order.ID, "error", err)
			return order, nil
		}
		logger.Error("Checkout activity failed", "userId", input.User.ID, "error", err)
		return nil, err
	}
	logger.Info("Checkout activity completed", "userId", input.User.ID, "orderId", order.ID)
	return order, nil
}
