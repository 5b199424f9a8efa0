package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// DefaultCartTTL bounds how long an abandoned cart survives in Redis.
const DefaultCartTTL = 30 * 24 * time.Hour

// Repository stores each user's cart as a JSON value under cart:<userID>.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository wires a Redis-backed cart repository. A non-positive ttl falls
// back to DefaultCartTTL.
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &Repository{client: client, ttl: ttl}
}

// lineRecord flattens the domain line for storage so catalog changes to the
// Book type do not silently corrupt stored carts.
type lineRecord struct {
	BookID   string   `json:"bookId"`
	Title    string   `json:"title"`
	AuthorID string   `json:"authorId"`
	Price    float64  `json:"price"`
	Genres   []string `json:"genres,omitempty"`
	Quantity int      `json:"quantity"`
}

func cartKey(userID string) string { return "cart:" + userID }

func (r *Repository) Get(ctx context.Context, userID string) ([]domain.Line, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	payload, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", userID, err)
	}
	var records []lineRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	lines := make([]domain.Line, 0, len(records))
	for _, rec := range records {
		lines = append(lines, domain.Line{
			Book: catalogdomain.Book{
				ID:       rec.BookID,
				Title:    rec.Title,
				AuthorID: rec.AuthorID,
				Price:    rec.Price,
				Genres:   rec.Genres,
			},
			Quantity: rec.Quantity,
		})
	}
	return lines, nil
}

func (r *Repository) Save(ctx context.Context, userID string, lines []domain.Line) error {
	if err := r.ensureClient(); err != nil {
		return err
	}
	records := make([]lineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, lineRecord{
			BookID:   line.Book.ID,
			Title:    line.Book.Title,
			AuthorID: line.Book.AuthorID,
			Price:    line.Book.Price,
			Genres:   line.Book.Genres,
			Quantity: line.Quantity,
		})
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", userID, err)
	}
	if err := r.client.Set(ctx, cartKey(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", userID, err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context, userID string) error {
	if err := r.ensureClient(); err != nil {
		return err
	}
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart %s: %w", userID, err)
	}
	return nil
}

func (r *Repository) ensureClient() error {
	if r == nil || r.client == nil {
		return errors.New("redis cart repository not configured")
	}
	return nil
}
