package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

const storeName = "postgres"

// ClaimStore keeps claims in the idempotency_claims table. Expiry is
// evaluated against the database clock so every gateway instance agrees.
type ClaimStore struct {
	q Executor
}

var (
	_ ports.ClaimStore   = (*ClaimStore)(nil)
	_ ports.ClaimExpirer = (*ClaimStore)(nil)
)

func NewClaimStore(db *DB) *ClaimStore {
	return &ClaimStore{q: db.Pool}
}

func (s *ClaimStore) Name() string {
	return storeName
}

// SetIfAbsent inserts the claim, or takes over a row whose claim has already
// expired. Both happen in one statement; a live claim is never touched.
func (s *ClaimStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error) {
	query := `
		INSERT INTO idempotency_claims (key, value, claimed_at, expires_at)
		VALUES ($1, $2, now(), now() + make_interval(secs => $3))
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    claimed_at = EXCLUDED.claimed_at,
		    expires_at = EXCLUDED.expires_at
		WHERE idempotency_claims.expires_at <= now()
	`

	tag, err := s.q.Exec(ctx, query, key, value, ttl.Seconds())
	if err != nil {
		return 0, err
	}

	// RowsAffected == 0 means a live claim already holds the key.
	if tag.RowsAffected() == 0 {
		return domain.ClaimAlreadyExists, nil
	}
	return domain.ClaimCreated, nil
}

// DeleteExpired removes up to limit claims whose expiry has passed.
func (s *ClaimStore) DeleteExpired(ctx context.Context, limit int) (int64, error) {
	query := `
		DELETE FROM idempotency_claims
		WHERE key IN (
			SELECT key FROM idempotency_claims
			WHERE expires_at <= now()
			ORDER BY expires_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
	`

	tag, err := s.q.Exec(ctx, query, limit)
	if err != nil {
		return 0, fmt.Errorf("delete expired claims: %w", err)
	}

	return tag.RowsAffected(), nil
}
