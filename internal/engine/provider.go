/*
PURPOSE:
  The provider capability the orchestrator consumes: create a sandbox, run
  commands in it, destroy it. Defined here, on the consumer side, so the
  engine never depends on any backend's shape.

REQUIREMENTS:
  User-specified:
  - Opaque capability set {create, runCommand, destroy}.
  - Missing credentials must short-circuit a provider before any iteration.

  Implementation-discovered:
  - Availability is a provider concern (env vars, local binaries), so it
    lives on the interface next to Create.

ARCHITECTURE INTEGRATION:
  - Implemented by: internal/provider (relay, local, docker)
  - Consumed by: internal/engine/runner.go

ERROR HANDLING:
  - Available() returns a descriptive error when the provider cannot run;
    the orchestrator records it as the skip reason.

IMPLEMENTATION RULES:
  - context.Context on every blocking operation.
  - Non-zero exit codes are results, not errors; only transport and protocol
    failures surface as errors.

USAGE:
  var p engine.Provider = provider.NewLocal()

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/provider/provider.go

MAINTENANCE:
  - Keep the interface minimal; benchmark code must not grow
    backend-specific branches.
*/

package engine

import (
	"context"
	"time"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// CommandOptions tunes one command execution.
type CommandOptions struct {
	// Cwd overrides the working directory. Empty = sandbox default.
	Cwd string

	// Timeout is the provider-side execution limit. Zero = provider default.
	// The orchestrator additionally bounds the whole call wall-clock.
	Timeout time.Duration

	// Background requests fire-and-forget execution where the backend
	// supports it.
	Background bool
}

// Sandbox is one ephemeral remote execution environment. Owned exclusively
// by a single iteration for its lifetime.
type Sandbox interface {
	// RunCommand executes a shell command and returns its full result.
	// A non-zero exit code is a valid result, not an error.
	RunCommand(ctx context.Context, command string, opts CommandOptions) (model.CommandResult, error)

	// Destroy releases the sandbox. May fail; callers decide whether to care.
	Destroy(ctx context.Context) error
}

// Provider is one sandbox compute backend.
type Provider interface {
	Name() string

	// Available reports whether the provider can run: credentials present,
	// local runtime installed. The error text becomes the skip reason.
	Available() error

	// Create provisions a fresh sandbox.
	Create(ctx context.Context) (Sandbox, error)
}
