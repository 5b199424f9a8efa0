package memory

import (
	"context"
	"sync"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
	"github.com/libreria/bookstore-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart adapter keyed by user id.
type Repository struct {
	mu    sync.RWMutex
	carts map[string][]domain.Line
}

func NewRepository() *Repository {
	return &Repository{carts: map[string][]domain.Line{}}
}

func (r *Repository) Get(_ context.Context, userID string) ([]domain.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lines := r.carts[userID]
	clone := make([]domain.Line, len(lines))
	copy(clone, lines)
	return clone, nil
}

func (r *Repository) Save(_ context.Context, userID string, lines []domain.Line) error {
	clone := make([]domain.Line, len(lines))
	copy(clone, lines)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = clone
	return nil
}

func (r *Repository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
