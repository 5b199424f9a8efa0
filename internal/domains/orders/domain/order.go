package domain

import (
	"errors"
	"time"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("order status is invalid")
)

// Customer is the identity snapshot stored on an order. It is fixed at order
// time; later changes to the account do not rewrite history.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Order is the purchase aggregate. It is immutable after creation except for
// Status; Total is computed once from the line snapshots and never recomputed.
type Order struct {
	ID        string
	User      Customer
	Items     []cartdomain.Line
	Total     float64
	CreatedAt time.Time
	Status    Status
}

// NewOrder builds an unpersisted order from validated cart lines. The
// repository assigns ID and CreatedAt on save.
func NewOrder(user Customer, items []cartdomain.Line) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	lines := make([]cartdomain.Line, len(items))
	copy(lines, items)
	return &Order{
		User:   user,
		Items:  lines,
		Total:  cartdomain.Total(lines),
		Status: StatusPending,
	}, nil
}

// ValidStatus reports whether the status is a known member of the enum. No
// transition graph is enforced; any member may overwrite any other.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}
