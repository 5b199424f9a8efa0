package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	apiapp "github.com/libreria/bookstore-api/internal/app/api"
	cartmemory "github.com/libreria/bookstore-api/internal/domains/cart/adapters/memory"
	cartredis "github.com/libreria/bookstore-api/internal/domains/cart/adapters/redis"
	cartports "github.com/libreria/bookstore-api/internal/domains/cart/ports"
	catalogmemory "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/libreria/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	ordersmemory "github.com/libreria/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/libreria/bookstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/libreria/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/libreria/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/libreria/bookstore-api/internal/domains/orders/ports"
	"github.com/libreria/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/libreria/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/libreria/bookstore-api/internal/platform/postgres"
	platformredis "github.com/libreria/bookstore-api/internal/platform/redis"
	orderactivities "github.com/libreria/bookstore-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/libreria/bookstore-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "bookstore-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := apiapp.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderService, cleanup := buildOrderService(ctx, cfg, instruments)
	defer cleanup()
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.Checkout, activity.RegisterOptions{Name: orderactivities.CheckoutActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CheckoutTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderService assembles the checkout service with the same persistence
// fallbacks the API process uses so retried activities see the same state.
func buildOrderService(ctx context.Context, cfg apiapp.Config, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			cleanupDB()
			os.Exit(1)
		}
	}
	redisClient, cleanupRedis := platformredis.ConnectOptional(ctx, cfg.RedisAddr, logger)
	cleanup := func() {
		cleanupRedis()
		cleanupDB()
	}

	var (
		bookRepo    ordersports.BookInventory
		orderRepo   ordersports.Repository
		idempotency ordersports.IdempotencyStore
	)
	if db != nil {
		bookRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
	} else {
		bookRepo = catalogmemory.NewRepository()
		orderRepo = ordersmemory.NewRepository()
		idempotency = ordersmemory.NewIdempotencyStore()
	}
	var cartRepo cartports.Repository = cartmemory.NewRepository()
	if redisClient != nil {
		cartRepo = cartredis.NewRepository(redisClient, cartredis.DefaultCartTTL)
	}

	core := ordersapp.NewService(orderRepo, bookRepo, cartRepo, ordersapp.WithIdempotencyStore(idempotency))
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}
