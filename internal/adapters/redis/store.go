// Package redis stores idempotency claims in Redis using SET NX EX.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/config"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
	goredis "github.com/redis/go-redis/v9"
)

const storeName = "redis"

type ClaimStore struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

var (
	_ ports.ClaimStore    = (*ClaimStore)(nil)
	_ ports.HealthChecker = (*ClaimStore)(nil)
)

func NewClaimStore(client goredis.UniversalClient, logger *slog.Logger) *ClaimStore {
	return &ClaimStore{client: client, logger: logger}
}

// Connect builds a client from cfg and verifies it with PING.
func Connect(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*ClaimStore, error) {
	opts, err := cfg.RedisOptions()
	if err != nil {
		logger.Error("failed to build redis options", "error", err)
		return nil, err
	}

	logger.Info("connecting to redis", "addr", opts.Addr, "db", opts.DB)

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		_ = client.Close()
		return nil, err
	}

	logger.Info("successfully connected to redis", "pool_size", opts.PoolSize)

	return NewClaimStore(client, logger), nil
}

func (s *ClaimStore) Name() string {
	return storeName
}

// SetIfAbsent issues SET key value EX ttl NX as a single command.
func (s *ClaimStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error) {
	created, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return 0, err
	}
	if created {
		return domain.ClaimCreated, nil
	}
	return domain.ClaimAlreadyExists, nil
}

func (s *ClaimStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ClaimStore) Close() error {
	s.logger.Info("closing redis client")
	return s.client.Close()
}
