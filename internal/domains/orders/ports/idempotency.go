package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different cart or user.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a client-supplied key with the order it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists checkout idempotency keys so retries can be
// replayed without debiting stock again.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash
	// and order, the stored record is returned. When the key exists but points
	// to a different request or order, ErrIdempotencyConflict is returned with
	// the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
