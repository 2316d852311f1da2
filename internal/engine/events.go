/*
PURPOSE:
  Event-stream result assembler. Consumes decoded lines, reconstructs
  protocol events, and folds them into a single CommandResult
  (stdout, stderr, exit code).

REQUIREMENTS:
  User-specified:
  - Grammar: "event:" sets the pending type, "data:" buffers payload lines,
    a blank line terminates the record, ":" lines are comments.
  - An error event always wins over a present exit code.
  - A stream that ends without an exit event is a protocol failure, never a
    silent exit 0.

  Implementation-discovered:
  - Streams may end without a final blank line; the buffered record must be
    flushed at EOF.
  - Unrecognized field lines and event types are ignored (forward compat).
  - A corrupt exit payload is a no-op; a previously parsed valid exit code
    is kept.

ARCHITECTURE INTEGRATION:
  - Fed by: internal/engine/stream.go (via client.go)
  - Produces: model.CommandResult for the orchestrator.

ERROR HANDLING:
  - Ambiguous stream endings surface as *StreamProtocolError.

IMPLEMENTATION RULES:
  - Plain value-type state machine mutated through one reducer step per line;
    unit-testable against literal line slices, no network required.

USAGE:
  var a engine.EventAssembler
  for _, line := range lines { a.Line(line) }
  res, err := a.Result()

SELF-HEALING INSTRUCTIONS:
  - If a provider adds event types, extend fold(); unknown types are already
    harmless.

RELATED FILES:
  - internal/engine/stream.go
  - internal/engine/client.go

MAINTENANCE:
  - Keep the grammar in sync with the relay exec endpoint.
*/

package engine

import (
	"strconv"
	"strings"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// Recognized event types on the execution stream.
const (
	eventStdout = "stdout"
	eventStderr = "stderr"
	eventExit   = "exit"
	eventError  = "error"
)

// protocolEvent is one fully reconstructed logical unit of the stream.
type protocolEvent struct {
	Type    string
	Payload string
}

// EventAssembler folds an execution event stream into a CommandResult.
// The zero value is ready to use. Feed every decoded line through Line,
// then call Result exactly once after the stream is exhausted.
type EventAssembler struct {
	pendingType string
	pendingData []string

	stdout   strings.Builder
	stderr   strings.Builder
	errLines []string
	exitCode *int
}

// Line applies one decoded line to the assembler state.
func (a *EventAssembler) Line(line string) {
	switch {
	case line == "":
		// Blank line terminates the record.
		a.emit()
	case strings.HasPrefix(line, ":"):
		// Comment; keep-alive noise from the server.
	case strings.HasPrefix(line, "event:"):
		a.pendingType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
	case strings.HasPrefix(line, "data:"):
		payload := strings.TrimPrefix(line, "data:")
		payload = strings.TrimPrefix(payload, " ")
		a.pendingData = append(a.pendingData, payload)
	default:
		// Unrecognized field; ignored for forward compatibility.
	}
}

// emit closes the pending record and folds it, then resets to the default
// event type. Records with no data lines fold nothing.
func (a *EventAssembler) emit() {
	if len(a.pendingData) > 0 {
		a.fold(protocolEvent{
			Type:    a.pendingType,
			Payload: strings.Join(a.pendingData, "\n"),
		})
	}
	a.pendingType = ""
	a.pendingData = nil
}

func (a *EventAssembler) fold(ev protocolEvent) {
	switch ev.Type {
	case eventStdout:
		a.stdout.WriteString(ev.Payload)
	case eventStderr:
		a.stderr.WriteString(ev.Payload)
	case eventExit:
		if code, err := strconv.Atoi(strings.TrimSpace(ev.Payload)); err == nil {
			a.exitCode = &code
		}
	case eventError:
		a.errLines = append(a.errLines, ev.Payload)
	default:
		// Unknown event type; ignored.
	}
}

// Result flushes any unterminated record and returns the assembled
// CommandResult. Fails with *StreamProtocolError if any error event was
// observed (it outranks a present exit code), or if the stream ended
// without a terminal exit event.
func (a *EventAssembler) Result() (model.CommandResult, error) {
	a.emit()

	if len(a.errLines) > 0 {
		return model.CommandResult{}, &StreamProtocolError{
			Reason: strings.Join(a.errLines, "\n"),
		}
	}
	if a.exitCode == nil {
		return model.CommandResult{}, &StreamProtocolError{
			Reason: "stream ended without an exit event",
		}
	}
	return model.CommandResult{
		Stdout:   a.stdout.String(),
		Stderr:   a.stderr.String(),
		ExitCode: *a.exitCode,
	}, nil
}
