package application

import (
	"context"
	"errors"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases over the book and author repositories.
type Service struct {
	books   ports.Repository
	authors ports.AuthorRepository
}

func NewService(books ports.Repository, authors ports.AuthorRepository) *Service {
	return &Service{books: books, authors: authors}
}

func (s *Service) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.books.FindAll(ctx)
}

func (s *Service) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.books.Create(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.books.Update(ctx, book)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.authors.FindAll(ctx)
}

func (s *Service) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	if author == nil {
		return nil, errors.New("author is nil")
	}
	if _, err := domain.NewAuthor(author.ID, author.Name); err != nil {
		return nil, mapError(err)
	}
	return s.authors.Create(ctx, author)
}

func (s *Service) UpdateAuthor(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	if author == nil {
		return nil, errors.New("author is nil")
	}
	if _, err := domain.NewAuthor(author.ID, author.Name); err != nil {
		return nil, mapError(err)
	}
	return s.authors.Update(ctx, author)
}

func (s *Service) DeleteAuthor(ctx context.Context, id string) error {
	return s.authors.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
