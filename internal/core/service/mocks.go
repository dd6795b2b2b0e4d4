package service

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

// SetIfAbsentCall records the arguments of one store call.
type SetIfAbsentCall struct {
	Key   string
	Value string
	TTL   time.Duration
}

// MockClaimStore is an in-process ClaimStore with call recording.
// Without SetIfAbsentFn it behaves like a real store that never expires keys.
type MockClaimStore struct {
	mu     sync.Mutex
	claims map[string]string
	calls  []SetIfAbsentCall

	StoreName     string
	Delay         time.Duration
	SetIfAbsentFn func(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error)
}

func NewMockClaimStore() *MockClaimStore {
	return &MockClaimStore{
		claims:    make(map[string]string),
		StoreName: "mock",
	}
}

func (m *MockClaimStore) Name() string {
	return m.StoreName
}

func (m *MockClaimStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (domain.ClaimResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, SetIfAbsentCall{Key: key, Value: value, TTL: ttl})
	m.mu.Unlock()

	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.SetIfAbsentFn != nil {
		return m.SetIfAbsentFn(ctx, key, value, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.claims[key]; ok {
		return domain.ClaimAlreadyExists, nil
	}
	m.claims[key] = value
	return domain.ClaimCreated, nil
}

// Calls returns a copy of every SetIfAbsent call made so far.
func (m *MockClaimStore) Calls() []SetIfAbsentCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SetIfAbsentCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockRecorder counts admissions per outcome.
type MockRecorder struct {
	mu         sync.Mutex
	admissions map[domain.Outcome]int
	durations  int
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{admissions: make(map[domain.Outcome]int)}
}

func (r *MockRecorder) RecordAdmission(_ context.Context, outcome domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admissions[outcome]++
}

func (r *MockRecorder) RecordStoreDuration(context.Context, string, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *MockRecorder) Count(outcome domain.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admissions[outcome]
}

func (r *MockRecorder) StoreDurations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.durations
}
