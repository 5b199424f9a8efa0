package ports

import (
	"context"
	"errors"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateEmail is returned by Create and Update when the email
	// collides with another stored account. The use case checks first, but
	// lookup-then-create is not atomic, so the adapter backstops the unique
	// constraint.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// Repository persists user accounts. FindAll returns profile projections only;
// never shipping the password hash in listings is part of this contract.
type Repository interface {
	FindAll(ctx context.Context) ([]domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
