package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

const ErrCodeInternal = "INTERNAL_ERROR"

// ToHTTPStatus maps admission errors to HTTP status codes
func ToHTTPStatus(err error) int {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeDuplicateIdempotencyKey:
		return http.StatusConflict
	case domain.ErrCodeStoreFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// BuildErrorResponse returns the status and body for err.
func BuildErrorResponse(err error) (int, ErrorResponse) {
	detail := ErrorDetail{
		Code:    ErrCodeInternal,
		Message: err.Error(),
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		detail.Code = domainErr.Code
		detail.Details = domainErr.Details
	}

	return ToHTTPStatus(err), ErrorResponse{Success: false, Error: detail}
}

// WriteError maps admission errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, response := BuildErrorResponse(err)
	WriteJSON(w, status, response, logger)
}

func WriteJSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
