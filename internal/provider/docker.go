/*
PURPOSE:
  Docker provider: one ephemeral container per sandbox. Create is
  `docker run -d`, commands run through `docker exec`, destroy is
  `docker rm -f`. Measures container cold start the same way remote
  providers measure VM provisioning.

REQUIREMENTS:
  User-specified:
  - Same capability surface as the remote backends.

  Implementation-discovered:
  - The container needs a long-running PID 1 to exec against; sleep works on
    any base image worth benchmarking.
  - `docker rm -f` is idempotent enough for a teardown that is swallowed
    anyway.

ARCHITECTURE INTEGRATION:
  - Implements: engine.Provider / engine.Sandbox
  - Uses: docker CLI via os/exec.

ERROR HANDLING:
  - docker CLI failures surface with the CLI's stderr attached.

IMPLEMENTATION RULES:
  - Exit codes from `docker exec` are the command's own exit codes and are
    returned as results, not errors.

USAGE:
  p := provider.NewDocker(cfg.Docker)

SELF-HEALING INSTRUCTIONS:
  - If the docker CLI output format changes, only container ID parsing here
    is affected.

RELATED FILES:
  - internal/provider/local.go (shared output capping)

MAINTENANCE:
  - None expected.
*/

package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
	"github.com/daryltucker/sandbox-runner/internal/model"
)

// DockerProvider benchmarks local Docker container startup.
type DockerProvider struct {
	image string
}

// NewDocker creates the Docker provider.
func NewDocker(cfg config.DockerConfig) *DockerProvider {
	image := cfg.Image
	if image == "" {
		image = "alpine:latest"
	}
	return &DockerProvider{image: image}
}

func (p *DockerProvider) Name() string { return "docker" }

func (p *DockerProvider) Available() error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker CLI not found on PATH")
	}
	return nil
}

// Create starts a detached container and waits for its ID.
func (p *DockerProvider) Create(ctx context.Context) (engine.Sandbox, error) {
	cmd := exec.CommandContext(ctx, "docker", "run", "-d", "--rm",
		p.image, "sleep", "86400")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("docker run %s: %w: %s", p.image, err,
			strings.TrimSpace(stderrBuf.String()))
	}

	id := strings.TrimSpace(stdoutBuf.String())
	if id == "" {
		return nil, fmt.Errorf("docker run %s returned no container id", p.image)
	}
	return &dockerSandbox{id: id}, nil
}

type dockerSandbox struct {
	id string
}

func (s *dockerSandbox) RunCommand(ctx context.Context, command string, opts engine.CommandOptions) (model.CommandResult, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := []string{"exec"}
	if opts.Cwd != "" {
		args = append(args, "-w", opts.Cwd)
	}
	if opts.Background {
		args = append(args, "-d")
	}
	args = append(args, s.id, "sh", "-c", command)

	cmd := exec.CommandContext(ctx, "docker", args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdoutBuf, remaining: maxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderrBuf, remaining: maxOutputBytes}

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		if ctx.Err() != nil {
			return model.CommandResult{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// docker exec forwards the in-container exit code.
			exitCode = exitErr.ExitCode()
		} else {
			return model.CommandResult{}, fmt.Errorf("docker exec: %w", runErr)
		}
	}

	return model.CommandResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode,
	}, nil
}

func (s *dockerSandbox) Destroy(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "rm", "-f", s.id)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker rm -f %s: %w: %s", s.id, err,
			strings.TrimSpace(stderrBuf.String()))
	}
	return nil
}
