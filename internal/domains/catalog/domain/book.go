package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTitle    = errors.New("book title is required")
	ErrNegativePrice = errors.New("book price must not be negative")
	ErrNegativeStock = errors.New("book stock must not be negative")
)

// Book is the catalog aggregate. Stock is mutated only through the
// repository stock operations, never by assigning the field directly.
type Book struct {
	ID       string
	Title    string
	AuthorID string
	Price    float64
	Stock    int
	Genres   []string
}

// NewBook validates and constructs a Book aggregate.
func NewBook(id, title, authorID string, price float64, stock int, genres []string) (*Book, error) {
	book := &Book{
		ID:       id,
		Title:    strings.TrimSpace(title),
		AuthorID: authorID,
		Price:    price,
		Stock:    stock,
		Genres:   genres,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate enforces invariants on the aggregate.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if b.Price < 0 {
		return ErrNegativePrice
	}
	if b.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
