// Package clients provides the instrumented HTTP client used to reach the quote service.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// The ACL translates them into domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all retry attempts have been exhausted.
	// The original error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrRateLimited is returned when the context ends while waiting for the rate limiter.
	ErrRateLimited = errors.New("rate limited")
)
