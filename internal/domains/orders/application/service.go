package application

import (
	"context"
	"errors"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

// Service is the only use case with multi-entity write semantics: it validates
// a cart against live stock, debits stock, and persists the order.
type Service struct {
	repo  ports.Repository
	books ports.BookInventory
	carts ports.Carts
	idem  ports.IdempotencyStore
}

type Option func(*Service)

// WithIdempotencyStore enables replay of checkout retries carrying the same
// idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idem = store
	}
}

func NewService(repo ports.Repository, books ports.BookInventory, carts ports.Carts, opts ...Option) *Service {
	s := &Service{repo: repo, books: books, carts: carts}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ProcessNewOrder turns cart lines into a persisted pending order.
//
// The validation pass checks every line against live stock before any
// mutation, so a short line never leaves a half-applied order behind. The
// commit pass then debits per line through the repository's conditional
// decrement; a debit that loses a concurrent race is compensated by restoring
// the lines already taken. Persisting the order is the last write and the only
// externally visible commit point.
func (s *Service) ProcessNewOrder(ctx context.Context, user domain.Customer, lines []cartdomain.Line) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, mapError(domain.ErrEmptyCart)
	}

	for _, line := range lines {
		book, err := s.books.FindByID(ctx, line.Book.ID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, insufficientStock(line.Book.Title)
			}
			return nil, err
		}
		if book.Stock < line.Quantity {
			return nil, insufficientStock(book.Title)
		}
	}

	debited := make([]cartdomain.Line, 0, len(lines))
	for _, line := range lines {
		if err := s.books.DecrementStock(ctx, line.Book.ID, line.Quantity); err != nil {
			restoreErr := s.restore(ctx, debited)
			if errors.Is(err, catalogports.ErrInsufficientStock) || errors.Is(err, catalogports.ErrNotFound) {
				err = insufficientStock(line.Book.Title)
			}
			return nil, errors.Join(err, restoreErr)
		}
		debited = append(debited, line)
	}

	order, err := domain.NewOrder(user, lines)
	if err != nil {
		return nil, errors.Join(mapError(err), s.restore(ctx, debited))
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, errors.Join(err, s.restore(ctx, debited))
	}
	return saved, nil
}

// restore undoes debits already applied when a later line fails.
func (s *Service) restore(ctx context.Context, debited []cartdomain.Line) error {
	var errs error
	for _, line := range debited {
		if err := s.books.IncrementStock(ctx, line.Book.ID, line.Quantity); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Checkout drains the user's cart into ProcessNewOrder and clears the cart
// once the order is committed. With an idempotency key, a retried checkout
// replays the stored order instead of debiting stock a second time. A cart
// clear that fails after the commit returns the committed order together
// with ErrCartNotCleared.
func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	lines, err := s.carts.Get(ctx, input.User.ID)
	if err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	var fingerprint string
	if s.idem != nil && key != "" {
		fingerprint, err = FingerprintCheckout(input.User, lines)
		if err != nil {
			return nil, err
		}
		record, err := s.idem.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if record.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			order, err := s.repo.FindByID(ctx, record.OrderID)
			if err != nil {
				return nil, err
			}
			// The retry may be here because the first attempt committed but
			// failed to clear the cart; clear again so the replay converges.
			if err := s.carts.Clear(ctx, input.User.ID); err != nil {
				return order, cartNotCleared(err)
			}
			return order, nil
		}
	}

	order, err := s.ProcessNewOrder(ctx, input.User, lines)
	if err != nil {
		return nil, err
	}
	if s.idem != nil && key != "" {
		if _, err := s.idem.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			OrderID:     order.ID,
		}); err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
	}
	// The order is committed at this point; a failed clear must not read as a
	// failed checkout, or a keyless retry would place the order twice.
	if err := s.carts.Clear(ctx, input.User.ID); err != nil {
		return order, cartNotCleared(err)
	}
	return order, nil
}

// UpdateOrderStatus overwrites the status unconditionally; only membership of
// the enum is checked, not a transition graph.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.FindByStatus(ctx, status)
}

var _ ports.Service = (*Service)(nil)
