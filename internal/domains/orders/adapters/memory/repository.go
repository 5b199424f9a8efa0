package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Orders are kept in
// insertion order so listings reflect storage order.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	byID   map[string]*domain.Order
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{byID: map[string]*domain.Order{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save assigns the id and timestamp and appends the order.
func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now()
	}
	if existing, ok := r.byID[clone.ID]; ok {
		*existing = clone
	} else {
		stored := clone
		r.orders = append(r.orders, &stored)
		r.byID[clone.ID] = &stored
	}
	result := clone
	return &result, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) FindByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.User.ID == userID {
			clone := *order
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *Repository) FindByStatus(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.Status == status {
			clone := *order
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	order.Status = status
	clone := *order
	return &clone, nil
}
