package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIdempotencyKey(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
	}{
		{name: "nil header", header: nil, want: ""},
		{name: "missing header", header: http.Header{"Content-Type": {"application/json"}}, want: ""},
		{name: "canonical", header: http.Header{"Idempotency-Key": {"test-key"}}, want: "test-key"},
		{name: "lowercase map key", header: http.Header{"idempotency-key": {"test-key"}}, want: "test-key"},
		{name: "repeated lines use first", header: http.Header{"Idempotency-Key": {"first-value", "second-value"}}, want: "first-value"},
		{name: "empty slice", header: http.Header{"idempotency-key": {}}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractIdempotencyKey(tt.header))
		})
	}
}

func TestExtractIdempotencyKey_ArrayMatchesScalar(t *testing.T) {
	scalar := http.Header{}
	scalar.Set("idempotency-key", "test-key")

	array := http.Header{"Idempotency-Key": {"test-key"}}

	assert.Equal(t, ExtractIdempotencyKey(scalar), ExtractIdempotencyKey(array))
}

type admitFunc func(key string) error

func (f admitFunc) Admit(_ context.Context, key string) error { return f(key) }

func TestAdmitRequest_NilRequestIsMalformed(t *testing.T) {
	called := false
	err := AdmitRequest(admitFunc(func(string) error { called = true; return nil }), nil)

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMalformedRequest))
	assert.Equal(t, domain.OutcomeFault, domain.OutcomeOf(err))
	assert.False(t, called)
}

func TestAdmitRequest_PassesExtractedKey(t *testing.T) {
	var seen string
	r := httptest.NewRequest(http.MethodPost, "/orders", nil)
	r.Header.Set("Idempotency-Key", "order-key-0000000001")

	err := AdmitRequest(admitFunc(func(key string) error { seen = key; return nil }), r)

	require.NoError(t, err)
	assert.Equal(t, "order-key-0000000001", seen)
}

func TestGuardsMethod(t *testing.T) {
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.True(t, GuardsMethod(m), m)
	}
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.False(t, GuardsMethod(m), m)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "duplicate key",
			err:        domain.NewDuplicateKeyError("duplicate-key-0000001"),
			wantStatus: http.StatusConflict,
			wantCode:   domain.ErrCodeDuplicateIdempotencyKey,
			wantMsg:    "duplicate idempotency-key",
		},
		{
			name:       "store failure",
			err:        domain.NewStoreFailureError("redis", errors.New("Timeout")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   domain.ErrCodeStoreFailure,
			wantMsg:    "redis operation failed: Timeout",
		},
		{
			name:       "malformed request",
			err:        domain.NewMalformedRequestError("request is nil"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   domain.ErrCodeMalformedRequest,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteError(w, tt.err, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error.Message)
			}
		})
	}
}
