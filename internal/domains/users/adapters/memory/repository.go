package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
	"github.com/libreria/bookstore-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}}
}

func (r *Repository) FindAll(_ context.Context) ([]domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Profile, 0, len(r.users))
	for _, user := range r.users {
		list = append(list, user.Profile())
	}
	return list, nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email.String() == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(clone.Email.String(), clone.ID) {
		return nil, ports.ErrDuplicateEmail
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.users[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

func (r *Repository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	if r.emailTaken(clone.Email.String(), clone.ID) {
		return nil, ports.ErrDuplicateEmail
	}
	r.users[clone.ID] = &clone
	stored := clone
	return &stored, nil
}

// emailTaken reports whether another account already holds the email. Callers
// must hold the lock. It backstops the unique-email contract the way the
// postgres adapter's unique index does.
func (r *Repository) emailTaken(email, selfID string) bool {
	for id, user := range r.users {
		if id != selfID && user.Email.String() == email {
			return true
		}
	}
	return false
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
