package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. Items are stored
// as a JSONB snapshot: the order reproduces title and price even after the
// catalog changes.
type orderRecord struct {
	ID        string       `gorm:"primaryKey;column:id;type:uuid"`
	UserID    string       `gorm:"column:user_id;index:idx_orders_user_status"`
	UserName  string       `gorm:"column:user_name"`
	UserEmail string       `gorm:"column:user_email"`
	Items     []itemRecord `gorm:"column:items;serializer:json;type:jsonb"`
	Total     float64      `gorm:"column:total"`
	Status    string       `gorm:"column:status;type:varchar(32);index:idx_orders_user_status"`
	CreatedAt time.Time    `gorm:"column:created_at;index"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

type itemRecord struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	AuthorID string  `json:"authorId"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts the order, assigning id and timestamp.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]itemRecord, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, itemRecord{
			BookID:   line.Book.ID,
			Title:    line.Book.Title,
			AuthorID: line.Book.AuthorID,
			Price:    line.Book.Price,
			Quantity: line.Quantity,
		})
	}
	return orderRecord{
		ID:        order.ID,
		UserID:    order.User.ID,
		UserName:  order.User.Name,
		UserEmail: order.User.Email,
		Items:     items,
		Total:     order.Total,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]cartdomain.Line, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, cartdomain.Line{
			Book: catalogdomain.Book{
				ID:       item.BookID,
				Title:    item.Title,
				AuthorID: item.AuthorID,
				Price:    item.Price,
			},
			Quantity: item.Quantity,
		})
	}
	return &domain.Order{
		ID:        r.ID,
		User:      domain.Customer{ID: r.UserID, Name: r.UserName, Email: r.UserEmail},
		Items:     items,
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
		Status:    domain.Status(r.Status),
	}
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
