/*
PURPOSE:
  Defines the error taxonomy for the engine.
  Each failure mode a remote execution can hit gets its own type so callers
  can distinguish them with errors.As.

REQUIREMENTS:
  User-specified:
  - Timeouts, transport failures, protocol violations, and non-zero exits must
    be distinguishable and carry useful context.

  Implementation-discovered:
  - Diagnostic payloads (HTTP bodies, stderr) must be truncated before they
    land in a report cell.

ARCHITECTURE INTEGRATION:
  - Produced by: internal/engine (client, events, timeout, runner)
  - Consumed by: internal/engine/runner.go, tests.

ERROR HANDLING:
  - These ARE the error handling.

IMPLEMENTATION RULES:
  - Value or pointer types with Error() string; no sentinel comparisons.

USAGE:
  var te *engine.TimeoutError
  if errors.As(err, &te) { ... }

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Add a type when a genuinely new failure mode appears; don't overload these.
*/

package engine

import "fmt"

// diagnosticTailLimit caps how much stderr/body text rides along in an error.
const diagnosticTailLimit = 220

// TransportError reports an HTTP-layer failure: non-2xx status or an
// unusable response body.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (status %d): %s", e.StatusCode, truncateTail(e.Body))
}

// StreamProtocolError reports an event stream that ended ambiguously:
// either an explicit error event, or no terminal exit event at all.
type StreamProtocolError struct {
	Reason string
}

func (e *StreamProtocolError) Error() string {
	return fmt.Sprintf("stream protocol error: %s", e.Reason)
}

// CommandFailure reports a command that completed with a non-zero exit code.
// Step names the benchmark step ("First command failed", "Workload setup
// failed", ...); Output carries the diagnostic tail of stderr (or stdout if
// stderr was empty).
type CommandFailure struct {
	Step     string
	ExitCode int
	Output   string
}

func (e *CommandFailure) Error() string {
	return fmt.Sprintf("%s (exit %d): %s", e.Step, e.ExitCode, truncateTail(e.Output))
}

// TimeoutError reports a bounded operation that overran its deadline.
// Message names the step (creation, first command, setup, workload, teardown).
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string { return e.Message }

// truncateTail keeps the last diagnosticTailLimit characters of s.
// The tail, not the head: the useful part of a stack trace or compiler
// error is almost always at the end.
func truncateTail(s string) string {
	runes := []rune(s)
	if len(runes) <= diagnosticTailLimit {
		return s
	}
	return string(runes[len(runes)-diagnosticTailLimit:])
}
