package upstream

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/idempotency-gateway/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProxy_ForwardsRequest(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "order-key-0000000001", r.Header.Get("Idempotency-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Forwarded-For"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	defer backend.Close()

	p, err := NewProxy(config.UpstreamConfig{BaseURL: backend.URL, Timeout: time.Second}, discardLogger())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/orders", nil)
	r.Header.Set("Idempotency-Key", "order-key-0000000001")
	w := httptest.NewRecorder()
	p.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"ord_1"}`, w.Body.String())
	require.NoError(t, p.Ping(r.Context()))
}

func TestProxy_UpstreamDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	p, err := NewProxy(config.UpstreamConfig{BaseURL: url, Timeout: time.Second}, discardLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeUpstreamUnavailable)
}

func TestProxy_UpstreamSlow(t *testing.T) {
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer backend.Close()
	defer close(release)

	p, err := NewProxy(config.UpstreamConfig{BaseURL: backend.URL, Timeout: 50 * time.Millisecond}, discardLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestNewProxy_RejectsRelativeURL(t *testing.T) {
	_, err := NewProxy(config.UpstreamConfig{BaseURL: "/relative", Timeout: time.Second}, discardLogger())
	assert.Error(t, err)
}
