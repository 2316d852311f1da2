/*
PURPOSE:
  Local process provider: each "sandbox" is an isolated temp directory and
  commands run under /bin/sh on the host. Zero-credential baseline for
  comparing remote providers against local hardware, and the end-to-end
  test double for the whole pipeline.

REQUIREMENTS:
  User-specified:
  - Same capability surface as the remote backends.

  Implementation-discovered:
  - stdout/stderr must be capped; a chatty workload must not OOM the runner.
  - Non-zero exit is a result. Only spawn failures are errors.

ARCHITECTURE INTEGRATION:
  - Implements: engine.Provider / engine.Sandbox
  - Uses: os/exec, github.com/google/uuid for workspace names.

ERROR HANDLING:
  - Destroy removes the workspace; failure to remove surfaces (and is
    swallowed upstream like every teardown failure).

IMPLEMENTATION RULES:
  - sh -c so workload commands can use shell syntax, same as remote exec.
  - context cancellation kills the process.

USAGE:
  p := provider.NewLocal()

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/runner.go (contract on exit codes)

MAINTENANCE:
  - None expected.
*/

package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/daryltucker/sandbox-runner/internal/engine"
	"github.com/daryltucker/sandbox-runner/internal/model"
)

// maxOutputBytes caps stdout/stderr capture per command.
const maxOutputBytes = 1 << 20 // 1 MB

// LocalProvider runs commands on the host inside throwaway directories.
type LocalProvider struct{}

// NewLocal creates the local provider.
func NewLocal() *LocalProvider { return &LocalProvider{} }

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) Available() error {
	if _, err := exec.LookPath("sh"); err != nil {
		return fmt.Errorf("sh not found on PATH")
	}
	return nil
}

// Create makes a fresh workspace directory.
func (p *LocalProvider) Create(ctx context.Context) (engine.Sandbox, error) {
	dir := filepath.Join(os.TempDir(), "sandbox-runner-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &localSandbox{dir: dir}, nil
}

type localSandbox struct {
	dir string
}

func (s *localSandbox) RunCommand(ctx context.Context, command string, opts engine.CommandOptions) (model.CommandResult, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	} else {
		cmd.Dir = s.dir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdoutBuf, remaining: maxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderrBuf, remaining: maxOutputBytes}

	if opts.Background {
		if err := cmd.Start(); err != nil {
			return model.CommandResult{}, fmt.Errorf("starting command: %w", err)
		}
		return model.CommandResult{}, nil
	}

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		if ctx.Err() != nil {
			return model.CommandResult{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return model.CommandResult{}, fmt.Errorf("executing command: %w", runErr)
		}
	}

	return model.CommandResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode,
	}, nil
}

func (s *localSandbox) Destroy(ctx context.Context) error {
	return os.RemoveAll(s.dir)
}

// limitedWriter caps total bytes written; overflow is silently dropped so
// the command itself never sees a write error.
type limitedWriter struct {
	w         io.Writer
	remaining int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if lw.remaining <= 0 {
		return len(p), nil
	}
	n := len(p)
	if n > lw.remaining {
		n = lw.remaining
	}
	if _, err := lw.w.Write(p[:n]); err != nil {
		return 0, err
	}
	lw.remaining -= n
	return len(p), nil
}
