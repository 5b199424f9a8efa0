package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/libreria/bookstore-api/internal/domains/users/domain"
	"github.com/libreria/bookstore-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

func (r *Repository) FindAll(ctx context.Context) ([]domain.Profile, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	// Profile listing deliberately never selects password_hash.
	if err := r.db.WithContext(ctx).
		Select("id", "name", "email", "role").
		Find(&records).Error; err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, domain.Profile{
			ID:    record.ID,
			Name:  record.Name,
			Email: record.Email,
			Role:  domain.Role(record.Role),
		})
	}
	return profiles, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	result := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"name":          record.Name,
			"email":         record.Email,
			"password_hash": record.PasswordHash,
			"role":          record.Role,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email.String(),
		PasswordHash: user.PasswordHash.String(),
		Role:         string(user.Role),
	}
}

func (r userRecord) toDomain() (*domain.User, error) {
	email, err := domain.NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        email,
		PasswordHash: domain.PasswordFromHash(r.PasswordHash),
		Role:         domain.Role(r.Role),
	}, nil
}
