package infra

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Backends holds the optional external stores. A nil field means the
// service falls back to in-memory storage or runs without caching.
type Backends struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// BackendConfig names the connection URLs. Empty URLs are skipped.
type BackendConfig struct {
	DatabaseURL string
	RedisURL    string
	Pool        PoolOptions
}

// Open connects whatever is configured and migrates Postgres. On error any
// connection already made is closed.
func Open(ctx context.Context, cfg BackendConfig, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.DatabaseURL != "" {
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL, cfg.Pool)
		if err != nil {
			return nil, err
		}
		b.DB = pool
		if err := Migrate(ctx, pool); err != nil {
			b.Close()
			return nil, err
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	if cfg.RedisURL != "" {
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Cache = client
	} else {
		logger.Warn("REDIS_URL not set, idempotency, rate limiting and profile cache disabled")
	}

	return b, nil
}

// Close releases both connections. It is safe on a partially opened value.
func (b *Backends) Close() error {
	var errs []error
	if b.Cache != nil {
		errs = append(errs, b.Cache.Close())
	}
	if b.DB != nil {
		b.DB.Close()
	}
	return errors.Join(errs...)
}
