package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	ordersdomain "github.com/libreria/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

const tracerName = "github.com/libreria/bookstore-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ProcessNewOrder(ctx context.Context, user ordersdomain.Customer, lines []cartdomain.Line) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ProcessNewOrder",
		trace.WithAttributes(attribute.String("user.id", user.ID), attribute.Int("order.lines", len(lines))))
	defer span.End()

	s.logInfo(ctx, "processing new order", slog.String("user.id", user.ID), slog.Int("lines", len(lines)))
	result, err := s.inner.ProcessNewOrder(ctx, user, lines)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to process order", slog.String("user.id", user.ID))
	}
	s.metrics.recordPlaced(ctx, result.Status)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID), slog.String("user.id", user.ID), slog.Float64("total", result.Total))
	return result, nil
}

func (s *Service) Checkout(ctx context.Context, input ordersports.CheckoutInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Checkout",
		trace.WithAttributes(attribute.String("user.id", input.User.ID)))
	defer span.End()

	s.logInfo(ctx, "checking out cart", slog.String("user.id", input.User.ID))
	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		// A post-commit clear failure arrives with the committed order; pass
		// it through so the caller can still acknowledge the order.
		return result, s.handleError(ctx, span, err, "failed to check out cart", slog.String("user.id", input.User.ID))
	}
	s.logInfo(ctx, "checkout completed",
		slog.String("order.id", result.ID), slog.String("user.id", input.User.ID))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status ordersdomain.Status) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", id), slog.String("status", string(status)))
	result, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetUserOrders",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	result, err := s.inner.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user orders", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status ordersdomain.Status) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrdersByStatus",
		trace.WithAttributes(attribute.String("order.status", string(status))))
	defer span.End()

	result, err := s.inner.GetOrdersByStatus(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load orders by status", slog.String("status", string(status)))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed",
		metric.WithDescription("Number of orders placed"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes",
		metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: ordersPlaced, statusChanges: statusChanges}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status ordersdomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status ordersdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
