package ports

import (
	"context"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
)

// CreateUserInput carries the fields an admin supplies for a new account.
// Password is plaintext here and hashed inside the use case.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial patch; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// Service exposes the admin user use cases plus credential verification.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]domain.Profile, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
