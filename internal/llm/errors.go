package llm

import (
	"errors"
	"fmt"
)

// ErrTransient marks gateway failures (network, timeout, rate limit) that are
// worth retrying within the attempt budget.
var ErrTransient = errors.New("transient gateway error")

// ParseError means the gateway returned text that could not be parsed into
// the expected structured form.
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[%s] response parse failed: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError means the parsed output violated a stage's quality
// contract: wrong item counts, out-of-range confidence, and so on.
type ValidationError struct {
	Label  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] quality check failed: %s", e.Label, e.Reason)
}

// RetryExhaustedError is fatal for the current deal review: every attempt at
// one stage failed. It is surfaced to the lifecycle driver and never retried
// at the state-machine level.
type RetryExhaustedError struct {
	Label    string
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("[%s] failed after %d attempts: %v", e.Label, e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }
