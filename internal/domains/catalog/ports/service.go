package ports

import (
	"context"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error

	ListAuthors(ctx context.Context) ([]*domain.Author, error)
	GetAuthor(ctx context.Context, id string) (*domain.Author, error)
	CreateAuthor(ctx context.Context, author *domain.Author) (*domain.Author, error)
	UpdateAuthor(ctx context.Context, author *domain.Author) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id string) error
}
