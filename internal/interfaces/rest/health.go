package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

// Dependency is one named readiness check.
type Dependency struct {
	Name    string
	Checker ports.HealthChecker
}

type HealthHandlers struct {
	deps   []Dependency
	logger *slog.Logger
}

func NewHealthHandlers(logger *slog.Logger, deps ...Dependency) *HealthHandlers {
	return &HealthHandlers{deps: deps, logger: logger}
}

func (h *HealthHandlers) Livez(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Readyz reports unavailable while any dependency cannot be reached. Every
// dependency is checked so the body names all failures.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failures := map[string]string{}
	for _, dep := range h.deps {
		if err := dep.Checker.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "dependency", dep.Name, "error", err)
			failures[dep.Name] = err.Error()
		}
	}

	if len(failures) > 0 {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"errors": failures,
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
