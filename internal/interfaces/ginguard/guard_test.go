package ginguard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/service"
)

func newRouter(store *service.MockClaimStore) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handled := 0
	mw := Middleware{Guard: service.NewGuard(store, nil, logger), Logger: logger}

	r := gin.New()
	r.POST("/orders", mw.Handle, func(c *gin.Context) {
		handled++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r, &handled
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandle_NoKey(t *testing.T) {
	store := service.NewMockClaimStore()
	r, handled := newRouter(store)

	w := post(r, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, *handled)
	assert.Empty(t, store.Calls())
}

func TestHandle_Duplicate(t *testing.T) {
	store := service.NewMockClaimStore()
	r, handled := newRouter(store)

	first := post(r, "gin-duplicate-key-001")
	second := post(r, "gin-duplicate-key-001")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "duplicate idempotency-key")
	assert.Equal(t, 1, *handled)
}

func TestHandle_StoreFault(t *testing.T) {
	store := service.NewMockClaimStore()
	store.StoreName = "redis"
	store.SetIfAbsentFn = func(context.Context, string, string, time.Duration) (domain.ClaimResult, error) {
		return 0, errors.New("Timeout")
	}
	r, handled := newRouter(store)

	w := post(r, "gin-fault-key-0000001")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis operation failed: Timeout")
	assert.Zero(t, *handled)
}
