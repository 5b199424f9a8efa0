// Package redis provides the shared Redis client used by cache-backed adapters.
package redis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis at the given address and verifies connectivity.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOptional dials Redis with the configured address and returns the
// client plus a cleanup function. When the address is missing or the
// connection fails, it logs and returns nil with a no-op cleanup so callers
// can fall back to the in-memory cart store.
func ConnectOptional(ctx context.Context, addr string, logger *slog.Logger) (*redis.Client, func()) {
	if strings.TrimSpace(addr) == "" {
		if logger != nil {
			logger.Warn("redis address not set, falling back to in-memory cart store")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, addr)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory cart store", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
