package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"dealdesk/internal/logging"
)

// correction is appended to the prompt after a failed attempt. The %s is the
// truncated failure reason.
const correction = "\n\nPREVIOUS ATTEMPT FAILED: %s\nReturn STRICT JSON only. No prose, no markdown."

const failureReasonLimit = 200

// QualityCheck inspects a parsed result and returns a non-empty failure
// reason when the result violates the stage's contract.
type QualityCheck[T any] func(T) string

// Execute runs one gateway call with structured-output parsing, a semantic
// quality check, and bounded retry with escalating strictness. Transient
// gateway errors, parse failures and quality failures all share the same
// attempt budget. Exactly maxAttempts gateway invocations happen before the
// call fails with *RetryExhaustedError, which is fatal for the current deal.
//
// No partial state is committed: the caller only sees a value that passed
// both parsing and the quality check.
func Execute[T any](ctx context.Context, gw Gateway, prompt string, quality QualityCheck[T], maxAttempts int, label string) (T, error) {
	var zero T
	log := logging.New("executor")

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		parsed, err := attemptOnce[T](ctx, gw, prompt, quality, label)
		if err == nil {
			if attempt > 1 {
				log.Info("retry succeeded", "label", label, "attempt", attempt)
			}
			return parsed, nil
		}

		lastErr = err
		if attempt < maxAttempts {
			log.Warn("attempt failed, retrying with stricter prompt",
				"label", label, "attempt", attempt, "error", err)
			prompt += correctivePrompt(err)
		}
	}

	return zero, &RetryExhaustedError{Label: label, Attempts: maxAttempts, LastErr: lastErr}
}

func attemptOnce[T any](ctx context.Context, gw Gateway, prompt string, quality QualityCheck[T], label string) (T, error) {
	var parsed T

	raw, err := gw.Complete(ctx, prompt)
	if err != nil {
		return parsed, err
	}

	if err := json.Unmarshal(CleanResponse([]byte(raw)), &parsed); err != nil {
		return parsed, &ParseError{Label: label, Err: err}
	}

	if quality != nil {
		if reason := quality(parsed); reason != "" {
			return parsed, &ValidationError{Label: label, Reason: reason}
		}
	}

	return parsed, nil
}

func correctivePrompt(err error) string {
	reason := err.Error()
	if len(reason) > failureReasonLimit {
		reason = reason[:failureReasonLimit]
	}
	return fmt.Sprintf(correction, reason)
}
