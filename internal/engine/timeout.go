/*
PURPOSE:
  Deadline-bounded operation wrapper. Races any asynchronous operation
  against a timer and converts an overrun into a labeled *TimeoutError.

REQUIREMENTS:
  User-specified:
  - On overrun, reject with the step-specific message; the winner's result is
    returned untouched otherwise.
  - Cancellation must actually reach the operation where the transport
    supports it.

  Implementation-discovered:
  - In Go that propagation is the context: the operation receives a context
    cancelled at the deadline, so an in-flight HTTP request is genuinely
    abandoned, not merely ignored locally.
  - Operations that cannot honor the context (a hung SDK call) lose the race
    anyway; their goroutine drains into the buffered channel.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go for create / command / teardown steps.

ERROR HANDLING:
  - Overrun -> *TimeoutError{Message}. Operation errors pass through as-is.

IMPLEMENTATION RULES:
  - Generic over the result type; no interface{} plumbing.

USAGE:
  sbx, err := engine.WithTimeout(ctx, 60*time.Second, "Sandbox creation timed out",
      func(ctx context.Context) (provider.Sandbox, error) { return p.Create(ctx) })

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - None expected.
*/

package engine

import (
	"context"
	"errors"
	"time"
)

// WithTimeout runs op bounded by d. If op finishes first its result and
// error are returned unchanged; once d elapses the call returns a
// *TimeoutError carrying msg and the operation's context is cancelled.
func WithTimeout[T any](ctx context.Context, d time.Duration, msg string, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	// Buffered so a late finisher can always deliver and exit.
	done := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		// An operation that aborted on our own deadline reports the same
		// timeout, not its raw context error.
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
			var zero T
			return zero, &TimeoutError{Message: msg}
		}
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, &TimeoutError{Message: msg}
	}
}
