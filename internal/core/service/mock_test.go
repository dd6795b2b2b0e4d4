package service

import (
	"context"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// expectingClaimStore is a testify mock for asserting exact store arguments.
type expectingClaimStore struct {
	mock.Mock
}

func (m *expectingClaimStore) Name() string {
	return "redis"
}

func (m *expectingClaimStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Get(0).(domain.ClaimResult), args.Error(1)
}
