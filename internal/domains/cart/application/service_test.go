package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libreria/bookstore-api/internal/domains/cart/domain"
	"github.com/libreria/bookstore-api/internal/domains/cart/ports"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
)

type fakeCartRepo struct {
	carts map[string][]domain.Line
	saves int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string][]domain.Line{}}
}

func (f *fakeCartRepo) Get(_ context.Context, userID string) ([]domain.Line, error) {
	return append([]domain.Line(nil), f.carts[userID]...), nil
}

func (f *fakeCartRepo) Save(_ context.Context, userID string, lines []domain.Line) error {
	f.saves++
	f.carts[userID] = append([]domain.Line(nil), lines...)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

func testBook(id string, price float64) catalogdomain.Book {
	return catalogdomain.Book{ID: id, Title: "Book " + id, AuthorID: "a-1", Price: price, Stock: 100}
}

func TestAddBook_AppendsNewLine(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	lines, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestAddBook_MergesSameBook(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), 2)
	require.NoError(t, err)
	lines, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), 3)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	require.Equal(t, 5, lines[0].Quantity)
}

func TestAddBook_InvalidQuantityLeavesCartUnchanged(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), -3)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	require.Zero(t, repo.saves)
	lines, err := svc.Items(context.Background(), "u-1")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestRemoveBook_DropsLine(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 9.5), 1)
	require.NoError(t, err)
	_, err = svc.AddBook(context.Background(), "u-1", testBook("b-2", 4.0), 1)
	require.NoError(t, err)

	lines, err := svc.RemoveBook(context.Background(), "u-1", "b-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "b-2", lines[0].Book.ID)
}

func TestRemoveBook_MissingLine(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.RemoveBook(context.Background(), "u-1", "b-404")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTotal_SumsPriceTimesQuantity(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 10.0), 2)
	require.NoError(t, err)
	_, err = svc.AddBook(context.Background(), "u-1", testBook("b-2", 3.5), 4)
	require.NoError(t, err)

	total, err := svc.Total(context.Background(), "u-1")
	require.NoError(t, err)
	require.InDelta(t, 34.0, total, 1e-9)
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	total, err := svc.Total(context.Background(), "u-1")
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestClear_EmptiesCart(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)

	_, err := svc.AddBook(context.Background(), "u-1", testBook("b-1", 10.0), 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), "u-1"))

	lines, err := svc.Items(context.Background(), "u-1")
	require.NoError(t, err)
	require.Empty(t, lines)
}
