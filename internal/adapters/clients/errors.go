// Package clients is the resilient HTTP client used to reach supplier
// catalogs: per-host connection pooling, retries with jittered backoff, and
// a circuit breaker that the supplier health check reports on.
package clients

import "errors"

var (
	// ErrCircuitOpen means the breaker is refusing calls to the supplier.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once retries run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
