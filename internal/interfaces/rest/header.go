package rest

import (
	"net/http"
	"strings"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

// ExtractIdempotencyKey returns the first Idempotency-Key value, or "" when the
// header (or the whole header map) is missing. Map keys are matched
// case-insensitively so headers set without canonicalisation are still found.
func ExtractIdempotencyKey(h http.Header) string {
	if h == nil {
		return ""
	}

	if values := h.Values(domain.HeaderName); len(values) > 0 {
		return values[0]
	}

	for name, values := range h {
		if strings.EqualFold(name, domain.HeaderName) && len(values) > 0 {
			return values[0]
		}
	}

	return ""
}
