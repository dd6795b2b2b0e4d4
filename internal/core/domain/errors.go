package domain

import (
	"errors"
	"fmt"
)

// DomainError represents an admission error surfaced to the framework adapter
type DomainError struct {
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeDuplicateIdempotencyKey = "DUPLICATE_IDEMPOTENCY_KEY"
	ErrCodeStoreFailure            = "STORE_FAILURE"
	ErrCodeMalformedRequest        = "MALFORMED_REQUEST"
)

// DuplicateKeyMessage is the literal message of every conflict. Monitoring counts on it.
const DuplicateKeyMessage = "duplicate idempotency-key"

func NewDuplicateKeyError(key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateIdempotencyKey,
		Message: DuplicateKeyMessage,
		Details: map[string]string{"idempotency_key": key},
	}
}

// NewStoreFailureError wraps a failed store operation. The rendered message is
// "<store> operation failed: <cause>".
func NewStoreFailureError(store string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeStoreFailure,
		Message: fmt.Sprintf("%s operation failed", store),
		Err:     err,
	}
}

func NewMalformedRequestError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMalformedRequest,
		Message: fmt.Sprintf("malformed request context: %s", reason),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func IsDuplicateKey(err error) bool {
	return IsErrorCode(err, ErrCodeDuplicateIdempotencyKey)
}

func IsStoreFailure(err error) bool {
	return IsErrorCode(err, ErrCodeStoreFailure)
}

// OutcomeOf classifies an Admit result.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAllowed
	case IsDuplicateKey(err):
		return OutcomeConflict
	default:
		return OutcomeFault
	}
}
