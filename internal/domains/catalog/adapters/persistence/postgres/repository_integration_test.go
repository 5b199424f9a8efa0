//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	"github.com/libreria/bookstore-api/internal/domains/catalog/ports"
	"github.com/libreria/bookstore-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("bookstore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgresRepository_CreateAndFindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	book, err := repo.Create(ctx, &domain.Book{
		Title:    "Dune",
		AuthorID: "7a0d6f3e-3f43-4a6f-9a44-000000000001",
		Price:    12.5,
		Stock:    7,
		Genres:   []string{"sci-fi", "classic"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, book.ID)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)
	assert.Equal(t, 7, found.Stock)
	assert.Equal(t, []string{"sci-fi", "classic"}, found.Genres)
}

func TestPostgresRepository_DecrementStockConditional(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	book, err := repo.Create(ctx, &domain.Book{Title: "Dune", Price: 12.5, Stock: 5})
	require.NoError(t, err)

	require.NoError(t, repo.DecrementStock(ctx, book.ID, 3))

	err = repo.DecrementStock(ctx, book.ID, 3)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	err = repo.DecrementStock(ctx, "b0b1c2d3-0000-0000-0000-000000000000", 1)
	require.ErrorIs(t, err, ports.ErrNotFound)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stock)

	require.NoError(t, repo.IncrementStock(ctx, book.ID, 3))
	found, err = repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Stock)
}

func TestPostgresAuthorRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewAuthorRepository(db)
	ctx := context.Background()

	author, err := repo.Create(ctx, &domain.Author{Name: "Frank Herbert"})
	require.NoError(t, err)
	require.NotEmpty(t, author.ID)

	author.Name = "F. Herbert"
	updated, err := repo.Update(ctx, author)
	require.NoError(t, err)
	assert.Equal(t, "F. Herbert", updated.Name)

	require.NoError(t, repo.Delete(ctx, author.ID))
	_, err = repo.FindByID(ctx, author.ID)
	require.ErrorIs(t, err, ports.ErrAuthorNotFound)
}
