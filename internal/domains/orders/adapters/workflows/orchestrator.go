package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
	orderworkflows "github.com/libreria/bookstore-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts checkout workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.CheckoutTaskQueue}
}

// Checkout starts the durable checkout workflow and waits for its result.
func (o *TemporalOrderWorkflows) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCheckoutWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.CheckoutWorkflow,
		orderworkflows.CheckoutWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order ordersdomain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// Checkout delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.Checkout(ctx, input)
}

// buildCheckoutWorkflowID derives a stable workflow id from the idempotency
// key so a retried request joins the in-flight workflow instead of starting a
// second one.
func buildCheckoutWorkflowID(input ports.CheckoutInput, traceComponent string) string {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" {
		sum := sha256.Sum256([]byte(input.User.ID + ":" + key))
		return "order-checkout-" + hex.EncodeToString(sum[:8])
	}
	if traceComponent != "" {
		return fmt.Sprintf("order-checkout-%s-%s", input.User.ID, traceComponent)
	}
	return "order-checkout-" + input.User.ID
}

func workflowTraceComponent(ctx context.Context) string {
	spanContext := oteltrace.SpanContextFromContext(ctx)
	if spanContext.HasTraceID() {
		return spanContext.TraceID().String()
	}
	return ""
}
