package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	bookstoreserver "github.com/libreria/bookstore-api/go"

	cartmemory "github.com/libreria/bookstore-api/internal/domains/cart/adapters/memory"
	cartredis "github.com/libreria/bookstore-api/internal/domains/cart/adapters/redis"
	cartapp "github.com/libreria/bookstore-api/internal/domains/cart/application"
	cartports "github.com/libreria/bookstore-api/internal/domains/cart/ports"

	catalogmemory "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/libreria/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"

	ordersmemory "github.com/libreria/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/libreria/bookstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/libreria/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/libreria/bookstore-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"

	usersmemory "github.com/libreria/bookstore-api/internal/domains/users/adapters/memory"
	usersapp "github.com/libreria/bookstore-api/internal/domains/users/application"
	userspostgres "github.com/libreria/bookstore-api/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/libreria/bookstore-api/internal/domains/users/ports"

	"github.com/libreria/bookstore-api/internal/platform/auth"
	"github.com/libreria/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/libreria/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/libreria/bookstore-api/internal/platform/postgres"
	platformredis "github.com/libreria/bookstore-api/internal/platform/redis"
)

// Run boots the Bookstore HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "bookstore-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redisClient, cleanupRedis := platformredis.ConnectOptional(ctx, cfg.RedisAddr, logger)
	defer cleanupRedis()

	var (
		bookRepo    catalogports.Repository
		authorRepo  catalogports.AuthorRepository
		userRepo    usersports.Repository
		orderRepo   ordersports.Repository
		idempotency ordersports.IdempotencyStore
	)
	if db != nil {
		bookRepo = catalogpostgres.NewRepository(db)
		authorRepo = catalogpostgres.NewAuthorRepository(db)
		userRepo = userspostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
	} else {
		bookRepo = catalogmemory.NewRepository()
		authorRepo = catalogmemory.NewAuthorRepository()
		userRepo = usersmemory.NewRepository()
		orderRepo = ordersmemory.NewRepository()
		idempotency = ordersmemory.NewIdempotencyStore()
	}
	var cartRepo cartports.Repository = cartmemory.NewRepository()
	if redisClient != nil {
		cartRepo = cartredis.NewRepository(redisClient, cartredis.DefaultCartTTL)
	}

	catalogService := catalogapp.NewService(bookRepo, authorRepo)
	cartService := cartapp.NewService(cartRepo)
	userService := usersapp.NewService(userRepo)
	coreOrderService := ordersapp.NewService(
		orderRepo,
		bookRepo,
		cartRepo,
		ordersapp.WithIdempotencyStore(idempotency),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	handlers := bookstoreserver.ApiHandleFunctions{
		BookAPI:  bookstoreserver.NewBookAPI(catalogService),
		CartAPI:  bookstoreserver.NewCartAPI(cartService, catalogService),
		OrderAPI: bookstoreserver.NewOrderAPI(orderService, orderWorkflows),
		UserAPI:  bookstoreserver.NewUserAPI(userService, issuer),
	}

	router := bookstoreserver.NewRouter(issuer, handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("Bookstore API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Bookstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
