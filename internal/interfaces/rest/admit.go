package rest

import (
	"context"
	"net/http"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

// Admitter is satisfied by *service.Guard.
type Admitter interface {
	Admit(ctx context.Context, key string) error
}

// AdmitRequest runs the admission decision for an HTTP request. A nil request
// is rejected with a MALFORMED_REQUEST fault rather than admitted.
func AdmitRequest(admitter Admitter, r *http.Request) error {
	if r == nil {
		return domain.NewMalformedRequestError("request is nil")
	}
	return admitter.Admit(r.Context(), ExtractIdempotencyKey(r.Header))
}

// GuardsMethod reports whether requests with this method go through admission.
func GuardsMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
