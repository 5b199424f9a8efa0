package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.AuthorRepository = (*AuthorRepository)(nil)
)

// Repository is an in-memory book persistence adapter. The store is owned by
// the instance, so tests can build isolated repositories per case.
type Repository struct {
	mu    sync.RWMutex
	books map[string]*domain.Book
}

func NewRepository() *Repository {
	return &Repository{books: map[string]*domain.Book{}}
}

func (r *Repository) FindAll(_ context.Context) ([]*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Book, 0, len(r.books))
	for _, book := range r.books {
		clone := *book
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *book
	return &clone, nil
}

func (r *Repository) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := *book
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.books[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

func (r *Repository) Update(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := *book
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.books[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

// DecrementStock performs the conditional debit under the store lock, so two
// concurrent debits can never drive the counter negative.
func (r *Repository) DecrementStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return ports.ErrNotFound
	}
	if book.Stock < quantity {
		return ports.ErrInsufficientStock
	}
	book.Stock -= quantity
	return nil
}

func (r *Repository) IncrementStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return ports.ErrNotFound
	}
	book.Stock += quantity
	return nil
}

// AuthorRepository is an in-memory author persistence adapter.
type AuthorRepository struct {
	mu      sync.RWMutex
	authors map[string]*domain.Author
}

func NewAuthorRepository() *AuthorRepository {
	return &AuthorRepository{authors: map[string]*domain.Author{}}
}

func (r *AuthorRepository) FindAll(_ context.Context) ([]*domain.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Author, 0, len(r.authors))
	for _, author := range r.authors {
		clone := *author
		list = append(list, &clone)
	}
	return list, nil
}

func (r *AuthorRepository) FindByID(_ context.Context, id string) (*domain.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	author, ok := r.authors[id]
	if !ok {
		return nil, ports.ErrAuthorNotFound
	}
	clone := *author
	return &clone, nil
}

func (r *AuthorRepository) Create(_ context.Context, author *domain.Author) (*domain.Author, error) {
	if author == nil {
		return nil, errors.New("author is nil")
	}
	clone := *author
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.authors[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

func (r *AuthorRepository) Update(_ context.Context, author *domain.Author) (*domain.Author, error) {
	if author == nil {
		return nil, errors.New("author is nil")
	}
	clone := *author
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[clone.ID]; !ok {
		return nil, ports.ErrAuthorNotFound
	}
	r.authors[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

func (r *AuthorRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return ports.ErrAuthorNotFound
	}
	delete(r.authors, id)
	return nil
}
