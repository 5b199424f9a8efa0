package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/ports"
)

type fakeInventory struct {
	books map[string]*catalogdomain.Book
	// stealOnDecrement drains the named book's stock just before its
	// decrement, simulating a concurrent checkout winning the race.
	stealOnDecrement string
}

func newFakeInventory(books ...catalogdomain.Book) *fakeInventory {
	inv := &fakeInventory{books: map[string]*catalogdomain.Book{}}
	for _, book := range books {
		copy := book
		inv.books[book.ID] = &copy
	}
	return inv
}

func (f *fakeInventory) FindByID(_ context.Context, id string) (*catalogdomain.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, catalogports.ErrNotFound
	}
	copy := *book
	return &copy, nil
}

func (f *fakeInventory) DecrementStock(_ context.Context, id string, quantity int) error {
	book, ok := f.books[id]
	if !ok {
		return catalogports.ErrNotFound
	}
	if f.stealOnDecrement == id {
		book.Stock = 0
		f.stealOnDecrement = ""
	}
	if book.Stock < quantity {
		return catalogports.ErrInsufficientStock
	}
	book.Stock -= quantity
	return nil
}

func (f *fakeInventory) IncrementStock(_ context.Context, id string, quantity int) error {
	book, ok := f.books[id]
	if !ok {
		return catalogports.ErrNotFound
	}
	book.Stock += quantity
	return nil
}

func (f *fakeInventory) stock(id string) int {
	return f.books[id].Stock
}

type fakeOrderRepo struct {
	orders []*domain.Order
	byID   map[string]*domain.Order
	saves  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.saves++
	copy := *order
	copy.ID = fmt.Sprintf("o-%d", f.saves)
	copy.CreatedAt = time.Now()
	f.orders = append(f.orders, &copy)
	f.byID[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if order, ok := f.byID[id]; ok {
		copy := *order
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range f.orders {
		if order.User.ID == userID {
			copy := *order
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByStatus(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range f.orders {
		if order.Status == status {
			copy := *order
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	order.Status = status
	copy := *order
	return &copy, nil
}

type fakeCarts struct {
	carts map[string][]cartdomain.Line
	// clearErr makes Clear fail, simulating the cart store going away
	// between the order commit and the clear.
	clearErr error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string][]cartdomain.Line{}}
}

func (f *fakeCarts) Get(_ context.Context, userID string) ([]cartdomain.Line, error) {
	return append([]cartdomain.Line(nil), f.carts[userID]...), nil
}

func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, userID)
	return nil
}

type fakeIdemStore struct {
	records map[string]ports.IdempotencyRecord
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{records: map[string]ports.IdempotencyRecord{}}
}

func (f *fakeIdemStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	if record, ok := f.records[key]; ok {
		copy := record
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeIdemStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if existing, ok := f.records[record.Key]; ok {
		copy := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &copy, ports.ErrIdempotencyConflict
		}
		return &copy, nil
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.Key] = record
	copy := record
	return &copy, nil
}

func line(book catalogdomain.Book, quantity int) cartdomain.Line {
	return cartdomain.Line{Book: book, Quantity: quantity}
}

var buyer = domain.Customer{ID: "u-1", Name: "Ada", Email: "ada@example.com"}

func TestProcessNewOrder_EmptyCart(t *testing.T) {
	repo := newFakeOrderRepo()
	inv := newFakeInventory()
	svc := NewService(repo, inv, newFakeCarts())

	_, err := svc.ProcessNewOrder(context.Background(), buyer, nil)
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, repo.saves)
}

func TestProcessNewOrder_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	scarce := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 12.0, Stock: 5}
	inv := newFakeInventory(scarce)
	repo := newFakeOrderRepo()
	svc := NewService(repo, inv, newFakeCarts())

	_, err := svc.ProcessNewOrder(context.Background(), buyer, []cartdomain.Line{line(scarce, 10)})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Contains(t, err.Error(), "Dune")
	require.Equal(t, 5, inv.stock("b-1"))
	require.Zero(t, repo.saves)
}

func TestProcessNewOrder_MissingBookReportsInsufficientStock(t *testing.T) {
	inv := newFakeInventory()
	repo := newFakeOrderRepo()
	svc := NewService(repo, inv, newFakeCarts())

	ghost := catalogdomain.Book{ID: "b-404", Title: "Vanished", Price: 5, Stock: 1}
	_, err := svc.ProcessNewOrder(context.Background(), buyer, []cartdomain.Line{line(ghost, 1)})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Zero(t, repo.saves)
}

func TestProcessNewOrder_DebitsStockAndPersistsPendingOrder(t *testing.T) {
	bookA := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 5.0, Stock: 5}
	bookB := catalogdomain.Book{ID: "b-2", Title: "Foundation", AuthorID: "a-2", Price: 2.5, Stock: 8}
	inv := newFakeInventory(bookA, bookB)
	repo := newFakeOrderRepo()
	svc := NewService(repo, inv, newFakeCarts())

	order, err := svc.ProcessNewOrder(context.Background(), buyer, []cartdomain.Line{
		line(bookA, 2),
		line(bookB, 4),
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, domain.StatusPending, order.Status)
	require.InDelta(t, 20.0, order.Total, 1e-9)
	require.Equal(t, 3, inv.stock("b-1"))
	require.Equal(t, 4, inv.stock("b-2"))
}

func TestProcessNewOrder_CompensatesWhenSecondLineLosesRace(t *testing.T) {
	bookA := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 5.0, Stock: 5}
	bookB := catalogdomain.Book{ID: "b-2", Title: "Foundation", AuthorID: "a-2", Price: 2.5, Stock: 8}
	inv := newFakeInventory(bookA, bookB)
	inv.stealOnDecrement = "b-2"
	repo := newFakeOrderRepo()
	svc := NewService(repo, inv, newFakeCarts())

	_, err := svc.ProcessNewOrder(context.Background(), buyer, []cartdomain.Line{
		line(bookA, 2),
		line(bookB, 4),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 5, inv.stock("b-1"))
	require.Zero(t, repo.saves)
}

func TestCheckout_DrainsCartAndClearsIt(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 5}
	inv := newFakeInventory(book)
	repo := newFakeOrderRepo()
	carts := newFakeCarts()
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	svc := NewService(repo, inv, carts)

	order, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer})
	require.NoError(t, err)
	require.InDelta(t, 20.0, order.Total, 1e-9)
	require.Empty(t, carts.carts[buyer.ID])

	orders, err := svc.GetUserOrders(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, order.ID, orders[0].ID)
}

func TestCheckout_ClearFailureStillReturnsCommittedOrder(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 5}
	inv := newFakeInventory(book)
	repo := newFakeOrderRepo()
	carts := newFakeCarts()
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	carts.clearErr = errors.New("redis: connection refused")
	svc := NewService(repo, inv, carts)

	order, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer})
	require.ErrorIs(t, err, ErrCartNotCleared)
	require.NotNil(t, order)
	require.Equal(t, 1, repo.saves)
	require.Equal(t, 3, inv.stock("b-1"))
	require.InDelta(t, 20.0, order.Total, 1e-9)
}

func TestCheckout_ReplayRetriesCartClear(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 5}
	inv := newFakeInventory(book)
	repo := newFakeOrderRepo()
	carts := newFakeCarts()
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	carts.clearErr = errors.New("redis: connection refused")
	svc := NewService(repo, inv, carts, WithIdempotencyStore(newFakeIdemStore()))

	first, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.ErrorIs(t, err, ErrCartNotCleared)
	require.NotNil(t, first)

	// The cart store recovers; replaying the same key returns the stored
	// order and finishes the clear the first attempt could not.
	carts.clearErr = nil
	second, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.saves)
	require.Equal(t, 3, inv.stock("b-1"))
	require.Empty(t, carts.carts[buyer.ID])
}

func TestCheckout_EmptyCart(t *testing.T) {
	inv := newFakeInventory()
	svc := NewService(newFakeOrderRepo(), inv, newFakeCarts())

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer})
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_ReplaysWithSameIdempotencyKey(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 5}
	inv := newFakeInventory(book)
	repo := newFakeOrderRepo()
	carts := newFakeCarts()
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	svc := NewService(repo, inv, carts, WithIdempotencyStore(newFakeIdemStore()))

	first, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.NoError(t, err)
	require.Equal(t, 3, inv.stock("b-1"))

	// Same key, same cart content: mimics a client resending the request
	// after a timeout.
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	second, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 3, inv.stock("b-1"))
	require.Equal(t, 1, repo.saves)
}

func TestCheckout_ConflictingIdempotencyKey(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 9}
	inv := newFakeInventory(book)
	carts := newFakeCarts()
	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 2)}
	svc := NewService(newFakeOrderRepo(), inv, carts, WithIdempotencyStore(newFakeIdemStore()))

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.NoError(t, err)

	carts.carts[buyer.ID] = []cartdomain.Line{line(book, 5)}
	_, err = svc.Checkout(context.Background(), ports.CheckoutInput{User: buyer, IdempotencyKey: "key-1"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeInventory(), newFakeCarts())

	_, err := svc.UpdateOrderStatus(context.Background(), "o-404", domain.StatusShipped)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeInventory(), newFakeCarts())

	_, err := svc.UpdateOrderStatus(context.Background(), "o-1", domain.Status("returned"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateOrderStatus_OverwritesAndIsVisible(t *testing.T) {
	book := catalogdomain.Book{ID: "b-1", Title: "Dune", AuthorID: "a-1", Price: 10.0, Stock: 5}
	inv := newFakeInventory(book)
	repo := newFakeOrderRepo()
	svc := NewService(repo, inv, newFakeCarts())

	order, err := svc.ProcessNewOrder(context.Background(), buyer, []cartdomain.Line{line(book, 1)})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, updated.Status)

	orders, err := svc.GetUserOrders(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, domain.StatusShipped, orders[0].Status)

	shipped, err := svc.GetOrdersByStatus(context.Background(), domain.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
}

func TestGetOrdersByStatus_InvalidStatus(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeInventory(), newFakeCarts())

	_, err := svc.GetOrdersByStatus(context.Background(), domain.Status("bogus"))
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}
