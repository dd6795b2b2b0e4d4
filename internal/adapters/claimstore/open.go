// Package claimstore selects and opens the configured claim store backend.
package claimstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/idempotency-gateway/internal/adapters/memory"
	"github.com/DanielPopoola/idempotency-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/idempotency-gateway/internal/adapters/redis"
	"github.com/DanielPopoola/idempotency-gateway/internal/config"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

// Backend bundles a claim store with its readiness probe and optional expirer.
// Expirer is nil for stores that expire keys on their own.
type Backend struct {
	Store   ports.ClaimStore
	Health  ports.HealthChecker
	Expirer ports.ClaimExpirer
	closeFn func()
}

func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Open connects the backend named by cfg.Store.Driver.
// The memory backend is refused in production.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		store, err := redis.Connect(ctx, &cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{
			Store:  store,
			Health: store,
			closeFn: func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to close redis client", "error", err)
				}
			},
		}, nil

	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.Database.ConnString()); err != nil {
			return nil, err
		}
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := postgres.NewClaimStore(db)
		return &Backend{
			Store:   store,
			Health:  db,
			Expirer: store,
			closeFn: db.Close,
		}, nil

	case config.DriverMemory:
		if cfg.IsProduction() {
			return nil, fmt.Errorf("memory claim store is not allowed in %s: configure redis or postgres", config.EnvProduction)
		}
		logger.Warn("using in-memory claim store; admission is not shared across instances")
		store := memory.NewClaimStore()
		return &Backend{
			Store:   store,
			Health:  store,
			Expirer: store,
		}, nil

	default:
		return nil, fmt.Errorf("unknown claim store driver %q", cfg.Store.Driver)
	}
}
