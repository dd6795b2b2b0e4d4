// Package memory is a process-local claim store for development and tests.
// State is lost on restart and is not shared between instances, so it cannot
// enforce admission across a fleet.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

const storeName = "memory"

type ClaimStore struct {
	mu     sync.Mutex
	claims map[string]entry
	now    func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

var (
	_ ports.ClaimStore    = (*ClaimStore)(nil)
	_ ports.HealthChecker = (*ClaimStore)(nil)
	_ ports.ClaimExpirer  = (*ClaimStore)(nil)
)

func NewClaimStore() *ClaimStore {
	return NewClaimStoreWithClock(time.Now)
}

func NewClaimStoreWithClock(now func() time.Time) *ClaimStore {
	return &ClaimStore{
		claims: make(map[string]entry),
		now:    now,
	}
}

func (s *ClaimStore) Name() string {
	return storeName
}

func (s *ClaimStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.claims[key]; ok && now.Before(e.expiresAt) {
		return domain.ClaimAlreadyExists, nil
	}

	s.claims[key] = entry{value: value, expiresAt: now.Add(ttl)}
	return domain.ClaimCreated, nil
}

// DeleteExpired drops up to limit expired entries.
func (s *ClaimStore) DeleteExpired(_ context.Context, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for k, e := range s.claims {
		if removed >= int64(limit) {
			break
		}
		if !now.Before(e.expiresAt) {
			delete(s.claims, k)
			removed++
		}
	}
	return removed, nil
}

func (s *ClaimStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}

func (s *ClaimStore) Ping(context.Context) error {
	return nil
}
