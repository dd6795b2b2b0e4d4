// Package domain defines the idempotency admission rules shared by every adapter.
package domain

import (
	"time"
	"unicode/utf8"
)

const (
	// HeaderName is the request header carrying the client-supplied key.
	HeaderName = "Idempotency-Key"

	// KeyPrefix namespaces claims so they cannot collide with unrelated data in the store.
	KeyPrefix = "idemp:"

	// ClaimValue is the sentinel written for every claim.
	ClaimValue = "1"

	// ClaimTTL bounds how long a key stays claimed.
	ClaimTTL = 24 * time.Hour

	// MinKeyLength is the shortest key, in characters, that engages the guard.
	MinKeyLength = 16
)

// ClaimResult is the outcome of an atomic set-if-absent against the store.
type ClaimResult int

const (
	ClaimCreated ClaimResult = iota + 1
	ClaimAlreadyExists
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimCreated:
		return "CREATED"
	case ClaimAlreadyExists:
		return "ALREADY_EXISTS"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the admission decision handed back to the framework adapter.
type Outcome string

const (
	OutcomeAllowed  Outcome = "ALLOWED"
	OutcomeConflict Outcome = "CONFLICT"
	OutcomeFault    Outcome = "FAULT"
)

// Claim describes a single set-if-absent request for a namespaced key.
type Claim struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Qualifies reports whether raw is long enough to engage the guard.
// Shorter keys, including the empty string, are admitted without touching the store.
func Qualifies(raw string) bool {
	return utf8.RuneCountInString(raw) >= MinKeyLength
}

// ClaimKey namespaces the raw key. The raw key is used verbatim.
func ClaimKey(raw string) string {
	return KeyPrefix + raw
}

// NewClaim builds the claim issued for a qualifying raw key.
func NewClaim(raw string) Claim {
	return Claim{
		Key:   ClaimKey(raw),
		Value: ClaimValue,
		TTL:   ClaimTTL,
	}
}
