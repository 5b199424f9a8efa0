package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&authorRecord{},
		&bookRecord{},
		&userRecord{},
		&orderRecord{},
		&idempotencyRecord{},
	)
}

// Book schema mirrors the catalog Postgres adapter.
type bookRecord struct {
	ID        string         `gorm:"primaryKey;column:id;type:uuid"`
	Title     string         `gorm:"column:title"`
	AuthorID  string         `gorm:"column:author_id;index"`
	Price     float64        `gorm:"column:price"`
	Stock     int            `gorm:"column:stock;check:stock >= 0"`
	Genres    pq.StringArray `gorm:"column:genres;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

type authorRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (authorRecord) TableName() string { return "authors" }

// User schema mirrors the users Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter. Items are an immutable
// snapshot of the purchased lines serialized as JSONB.
type orderRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	UserID    string    `gorm:"column:user_id;index:idx_orders_user_status"`
	UserName  string    `gorm:"column:user_name"`
	UserEmail string    `gorm:"column:user_email"`
	Items     []byte    `gorm:"column:items;type:jsonb"`
	Total     float64   `gorm:"column:total"`
	Status    string    `gorm:"column:status;type:varchar(32);index:idx_orders_user_status"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Idempotency schema mirrors the checkout idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key"`
	RequestHash string    `gorm:"column:request_hash"`
	OrderID     string    `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
