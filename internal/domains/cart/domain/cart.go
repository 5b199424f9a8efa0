package domain

import (
	"errors"

	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Line pairs a book snapshot with a requested quantity. A user's cart holds at
// most one line per book id; quantities merge instead of duplicating lines.
type Line struct {
	Book     catalogdomain.Book
	Quantity int
}

// NewLine validates the quantity and snapshots the book.
func NewLine(book catalogdomain.Book, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	return Line{Book: book, Quantity: quantity}, nil
}

// Subtotal is the line contribution to the cart total.
func (l Line) Subtotal() float64 {
	return l.Book.Price * float64(l.Quantity)
}

// Total sums price times quantity over the lines; an empty cart totals zero.
func Total(lines []Line) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}
