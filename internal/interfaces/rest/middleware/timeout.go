package middleware

import (
	"context"
	"net/http"
	"time"
)

const timeoutBody = `{"success":false,"error":{"code":"TIMEOUT","message":"Request timeout"}}`

// minTimeoutHeadroom is the least time left between the request deadline and
// the server's WriteTimeout for the TIMEOUT body to reach the client.
const minTimeoutHeadroom = 100 * time.Millisecond

// RequestTimeout derives the request deadline from the server WriteTimeout,
// keeping a tenth of it (at least minTimeoutHeadroom) for writing the response.
func RequestTimeout(writeTimeout time.Duration) time.Duration {
	headroom := writeTimeout / 10
	if headroom < minTimeoutHeadroom {
		headroom = minTimeoutHeadroom
	}
	if writeTimeout <= headroom {
		return writeTimeout / 2
	}
	return writeTimeout - headroom
}

// Timeout bounds the whole request, including the claim round trip and the
// upstream call. A store call cut short by this deadline surfaces as a store fault.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			tw := &timeoutWriter{ResponseWriter: w, ctx: ctx}
			http.TimeoutHandler(next, timeout, timeoutBody).ServeHTTP(tw, r)
		})
	}
}

// timeoutWriter labels the TIMEOUT body as JSON. Responses written before the
// deadline keep whatever headers the handler set.
type timeoutWriter struct {
	http.ResponseWriter
	ctx context.Context
}

func (w *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.ctx.Err() != nil && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
