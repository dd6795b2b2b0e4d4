package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest/middleware"
)

// upstreamHandler is satisfied by *upstream.Proxy.
type upstreamHandler interface {
	http.Handler
	ports.HealthChecker
}

// newRouter serves health probes directly and sends every other request
// through the idempotency guard to upstream. Requests get a deadline slightly
// shorter than the server's writeTimeout so the TIMEOUT body can still be written.
func newRouter(guard rest.Admitter, store ports.HealthChecker, upstream upstreamHandler, writeTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Timeout(middleware.RequestTimeout(writeTimeout)),
	)

	probes := rest.NewHealthHandlers(logger,
		rest.Dependency{Name: "store", Checker: store},
		rest.Dependency{Name: "upstream", Checker: upstream},
	)
	r.Get("/livez", probes.Livez)
	r.Get("/readyz", probes.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Idempotency(guard, logger))
		r.Handle("/*", upstream)
	})

	return r
}
