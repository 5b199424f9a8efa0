package application

import (
	"context"
	"errors"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
	"github.com/libreria/bookstore-api/internal/domains/users/ports"
)

// Service exposes the admin user use cases. Email uniqueness is enforced here
// with a lookup-then-create against the repository.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser rejects duplicate emails before anything else: the collision
// check runs on the normalized email ahead of password hashing, so a taken
// address surfaces as ErrDuplicateEmail even when the password is also weak,
// and no bcrypt work is spent on a doomed request.
func (s *Service) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.FindByEmail(ctx, email.String())
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	user, err := domain.NewUser("", input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, user)
}

// UpdateUser applies a partial patch. Fields absent from the patch keep their
// stored values; a changed email is re-checked for collisions; a new password
// is re-hashed.
func (s *Service) UpdateUser(ctx context.Context, id string, patch ports.UpdateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, mapError(domain.ErrEmptyName)
		}
		existing.Name = *patch.Name
	}
	if patch.Email != nil {
		email, err := domain.NewEmail(*patch.Email)
		if err != nil {
			return nil, mapError(err)
		}
		if email.String() != existing.Email.String() {
			holder, err := s.repo.FindByEmail(ctx, email.String())
			if err != nil && !errors.Is(err, ports.ErrNotFound) {
				return nil, err
			}
			if holder != nil && holder.ID != id {
				return nil, ErrDuplicateEmail
			}
		}
		existing.Email = email
	}
	if patch.Password != nil {
		hash, err := domain.NewPassword(*patch.Password)
		if err != nil {
			return nil, mapError(err)
		}
		existing.PasswordHash = hash
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, mapError(domain.ErrInvalidRole)
		}
		existing.Role = *patch.Role
	}
	return s.repo.Update(ctx, existing)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListUsers returns profile projections; the repository contract keeps
// password hashes out of listings.
func (s *Service) ListUsers(ctx context.Context) ([]domain.Profile, error) {
	return s.repo.FindAll(ctx)
}

// Authenticate verifies credentials for login. Lookup misses and hash
// mismatches collapse into the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	parsed, err := domain.NewEmail(email)
	if err != nil {
		return nil, ports.ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.PasswordHash.Compare(password) {
		return nil, ports.ErrInvalidCredentials
	}
	return user, nil
}

var _ ports.Service = (*Service)(nil)
