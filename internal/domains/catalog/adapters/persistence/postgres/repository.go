package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.AuthorRepository = (*AuthorRepository)(nil)
)

// Repository persists books in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed book repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// bookRecord maps the book aggregate to a relational table.
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

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	books := make([]*domain.Book, 0, len(records))
	for i := range records {
		books = append(books, records[i].toDomain())
	}
	return books, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toBookRecord(book)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toBookRecord(book)
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"title":      record.Title,
			"author_id":  record.AuthorID,
			"price":      record.Price,
			"stock":      record.Stock,
			"genres":     record.Genres,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
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
	result := r.db.WithContext(ctx).Delete(&bookRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// DecrementStock issues a conditional single-statement update so concurrent
// debits serialize on the row and the stock column cannot go negative.
func (r *Repository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing book from a short row.
		var count int64
		if err := r.db.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrInsufficientStock
	}
	return nil
}

func (r *Repository) IncrementStock(ctx context.Context, id string, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
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
		return errors.New("postgres book repository not configured")
	}
	return nil
}

func toBookRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:       book.ID,
		Title:    book.Title,
		AuthorID: book.AuthorID,
		Price:    book.Price,
		Stock:    book.Stock,
		Genres:   pq.StringArray(book.Genres),
	}
}

func (r bookRecord) toDomain() *domain.Book {
	return &domain.Book{
		ID:       r.ID,
		Title:    r.Title,
		AuthorID: r.AuthorID,
		Price:    r.Price,
		Stock:    r.Stock,
		Genres:   []string(r.Genres),
	}
}

// AuthorRepository persists authors in PostgreSQL using GORM.
type AuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

type authorRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (authorRecord) TableName() string { return "authors" }

func (r *AuthorRepository) FindAll(ctx context.Context) ([]*domain.Author, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres author repository not configured")
	}
	var records []authorRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	authors := make([]*domain.Author, 0, len(records))
	for i := range records {
		authors = append(authors, &domain.Author{ID: records[i].ID, Name: records[i].Name})
	}
	return authors, nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*domain.Author, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres author repository not configured")
	}
	var record authorRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAuthorNotFound
		}
		return nil, err
	}
	return &domain.Author{ID: record.ID, Name: record.Name}, nil
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres author repository not configured")
	}
	if author == nil {
		return nil, errors.New("author is nil")
	}
	record := authorRecord{ID: author.ID, Name: author.Name}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{"name": record.Name, "updated_at": gorm.Expr("NOW()")}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return &domain.Author{ID: record.ID, Name: record.Name}, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres author repository not configured")
	}
	if author == nil {
		return nil, errors.New("author is nil")
	}
	result := r.db.WithContext(ctx).Model(&authorRecord{}).
		Where("id = ?", author.ID).
		Updates(map[string]any{"name": author.Name, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAuthorNotFound
	}
	return r.FindByID(ctx, author.ID)
}

func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("postgres author repository not configured")
	}
	result := r.db.WithContext(ctx).Delete(&authorRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrAuthorNotFound
	}
	return nil
}
