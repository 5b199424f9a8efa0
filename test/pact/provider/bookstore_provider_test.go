//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/libreria/bookstore-api/test/pact"

	bookstoreserver "github.com/libreria/bookstore-api/go"
	cartmemory "github.com/libreria/bookstore-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/libreria/bookstore-api/internal/domains/cart/application"
	catalogmemory "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/libreria/bookstore-api/internal/domains/catalog/application"
	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	ordersmemory "github.com/libreria/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/libreria/bookstore-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/libreria/bookstore-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	usersmemory "github.com/libreria/bookstore-api/internal/domains/users/adapters/memory"
	usersapp "github.com/libreria/bookstore-api/internal/domains/users/application"
	usersdomain "github.com/libreria/bookstore-api/internal/domains/users/domain"
	usersports "github.com/libreria/bookstore-api/internal/domains/users/ports"
	"github.com/libreria/bookstore-api/internal/platform/auth"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestBookstoreProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedBook(t, pacttest.ExistingBookID)
			}
			return nil, nil
		},
		pacttest.StateBookExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedBook(t, pacttest.ExistingBookID)
			}
			return nil, nil
		},
		pacttest.StateBookMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
		pacttest.StateReaderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedReader(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	books  *catalogmemory.Repository
	users  usersports.Service
	server *httptest.Server

	seededReader bool
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	bookRepo := catalogmemory.NewRepository()
	authorRepo := catalogmemory.NewAuthorRepository()
	catalogService := catalogapp.NewService(bookRepo, authorRepo)

	cartRepo := cartmemory.NewRepository()
	cartService := cartapp.NewService(cartRepo)

	userService := usersapp.NewService(usersmemory.NewRepository())

	orderService := ordersobs.New(ordersapp.NewService(
		ordersmemory.NewRepository(),
		bookRepo,
		cartRepo,
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	))
	orderWorkflows := ordersworkflows.NewInlineOrderWorkflows(orderService)

	issuer := auth.NewIssuer("pact-secret", time.Hour)
	handlers := bookstoreserver.ApiHandleFunctions{
		BookAPI:  bookstoreserver.NewBookAPI(catalogService),
		CartAPI:  bookstoreserver.NewCartAPI(cartService, catalogService),
		OrderAPI: bookstoreserver.NewOrderAPI(orderService, orderWorkflows),
		UserAPI:  bookstoreserver.NewUserAPI(userService, issuer),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = bookstoreserver.NewRouterWithGinEngine(router, issuer, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		books:  bookRepo,
		users:  userService,
		server: server,
	}
}

func (a *contractProviderApp) resetCatalog(t testing.TB) {
	t.Helper()
	books, err := a.books.FindAll(context.Background())
	require.NoError(t, err)
	for _, book := range books {
		_ = a.books.Delete(context.Background(), book.ID)
	}
}

func (a *contractProviderApp) seedBook(t testing.TB, id string) {
	t.Helper()
	book, err := catalogdomain.NewBook(id, "Dune", pacttest.ExistingAuthorID, 10.0, 5, []string{"science-fiction"})
	require.NoError(t, err)
	_, err = a.books.Create(context.Background(), book)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedReader(t testing.TB) {
	t.Helper()
	if a.seededReader {
		return
	}
	_, err := a.users.CreateUser(context.Background(), usersports.CreateUserInput{
		Name:     pacttest.ReaderName,
		Email:    pacttest.ReaderEmail,
		Password: pacttest.ReaderPassword,
		Role:     usersdomain.RoleUser,
	})
	require.NoError(t, err)
	a.seededReader = true
}
