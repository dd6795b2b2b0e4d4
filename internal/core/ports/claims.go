package ports

import (
	"context"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

// ClaimStore is the shared store holding idempotency claims.
type ClaimStore interface {
	// Name identifies the backend in fault messages, e.g. "redis".
	Name() string

	// SetIfAbsent creates key with value and ttl only if key does not exist,
	// as one indivisible store operation. A non-nil error means the operation
	// itself failed and says nothing about whether the key exists.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error)
}

// AdmissionRecorder receives one event per guard decision.
type AdmissionRecorder interface {
	RecordAdmission(ctx context.Context, outcome domain.Outcome)
	RecordStoreDuration(ctx context.Context, store string, seconds float64)
}

// HealthChecker is implemented by stores that can report readiness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ClaimExpirer is implemented by stores without native key expiry.
// Only claims whose TTL has already elapsed may be removed.
type ClaimExpirer interface {
	DeleteExpired(ctx context.Context, limit int) (int64, error)
}
