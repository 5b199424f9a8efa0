package application

import (
	"context"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
	"github.com/libreria/bookstore-api/internal/domains/cart/ports"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

// Service maintains a single user's cart through the cart repository port.
// The cart is a wish list: stock is validated at order time, not here.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddBook merges the quantity into an existing line for the same book id, or
// appends a new line, then persists the full updated set.
func (s *Service) AddBook(ctx context.Context, userID string, book catalogdomain.Book, quantity int) ([]domain.Line, error) {
	line, err := domain.NewLine(book, quantity)
	if err != nil {
		return nil, mapError(err)
	}
	lines, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range lines {
		if lines[i].Book.ID == book.ID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}
	if err := s.repo.Save(ctx, userID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveBook drops the line for bookID and persists the reduced set.
func (s *Service) RemoveBook(ctx context.Context, userID, bookID string) ([]domain.Line, error) {
	lines, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	index := -1
	for i := range lines {
		if lines[i].Book.ID == bookID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ports.ErrNotFound
	}
	lines = append(lines[:index], lines[index+1:]...)
	if err := s.repo.Save(ctx, userID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Items returns the current line set; a user without a cart gets an empty set.
func (s *Service) Items(ctx context.Context, userID string) ([]domain.Line, error) {
	return s.repo.Get(ctx, userID)
}

// Total sums price times quantity over the current lines.
func (s *Service) Total(ctx context.Context, userID string) (float64, error) {
	lines, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return domain.Total(lines), nil
}

// Clear empties the cart, used after a successful order placement.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

var _ ports.Service = (*Service)(nil)
