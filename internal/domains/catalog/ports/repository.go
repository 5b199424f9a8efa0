package ports

import (
	"context"
	"errors"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrInsufficientStock is returned by DecrementStock when the live stock
	// is smaller than the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAuthorNotFound    = errors.New("author not found")
)

// Repository persists catalog books and owns the stock counters.
type Repository interface {
	FindAll(ctx context.Context) ([]*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock debits quantity atomically, failing with
	// ErrInsufficientStock unless the current stock covers it. This is the
	// primitive the order commit pass relies on; stock never goes negative.
	DecrementStock(ctx context.Context, id string, quantity int) error
	// IncrementStock restocks a book; also the compensation path when a
	// multi-line debit has to be rolled back.
	IncrementStock(ctx context.Context, id string, quantity int) error
}

// AuthorRepository persists catalog authors.
type AuthorRepository interface {
	FindAll(ctx context.Context) ([]*domain.Author, error)
	FindByID(ctx context.Context, id string) (*domain.Author, error)
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	Update(ctx context.Context, author *domain.Author) (*domain.Author, error)
	Delete(ctx context.Context, id string) error
}
