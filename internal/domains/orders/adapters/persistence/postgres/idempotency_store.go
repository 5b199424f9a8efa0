package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key"`
	RequestHash string    `gorm:"column:request_hash"`
	OrderID     string    `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	row := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
	}
	// DoNothing keeps the first writer; the re-read below decides between
	// replay and conflict.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	var stored idempotencyRecord
	if err := s.db.WithContext(ctx).First(&stored, "key = ?", record.Key).Error; err != nil {
		return nil, err
	}
	if stored.RequestHash != record.RequestHash || stored.OrderID != record.OrderID {
		return stored.toPort(), ports.ErrIdempotencyConflict
	}
	return stored.toPort(), nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func (r idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
