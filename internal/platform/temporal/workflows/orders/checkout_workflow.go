package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
	orderactivities "github.com/libreria/bookstore-api/internal/platform/temporal/activities/orders"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the worker processing order workflows.
	CheckoutTaskQueue = "ORDER_CHECKOUT"
)

// CheckoutWorkflowInput captures the payload required to place an order.
type CheckoutWorkflowInput struct {
	Command ordersports.CheckoutInput
	TraceID string
}

// CheckoutWorkflow orchestrates the activity that drains the cart into a
// persisted order. Activity retries are safe because the command carries the
// idempotency key.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	userID := input.Command.User.ID
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "userId", userID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.CheckoutActivityName, input.Command).Get(ctx, &order); err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "userId", userID, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "userId", userID, "orderId", order.ID)...)
	return &order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
