package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest"
)

// Idempotency admits write requests through the guard before next runs.
// Conflicts and store faults short-circuit with the error envelope; the
// wrapped handler never sees them.
func Idempotency(guard rest.Admitter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r != nil && !rest.GuardsMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if err := rest.AdmitRequest(guard, r); err != nil {
				rest.WriteError(w, err, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
