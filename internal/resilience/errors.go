package resilience

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen is returned when the breaker short-circuits a call
	// without any network attempt. Callers of read-oriented auxiliary
	// dependencies should degrade gracefully rather than treat this as a
	// hard failure.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTimeout marks an attempt that exceeded its per-attempt deadline.
	// Timeouts belong to the retryable class.
	ErrTimeout = errors.New("remote call timed out")
)

// ExhaustedRetriesError wraps the last underlying error after the retry
// budget was fully consumed by retryable failures.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Err
}
