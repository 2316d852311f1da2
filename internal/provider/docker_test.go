package provider

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
)

// testImage is the container image used for integration tests.
const testImage = "alpine:latest"

// skipIfNoDocker skips the test if Docker is unavailable.
func skipIfNoDocker(t *testing.T) {
	t.Helper()
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("docker not available, skipping integration test")
	}
}

func TestDockerProvider_Lifecycle(t *testing.T) {
	skipIfNoDocker(t)

	p := NewDocker(config.DockerConfig{Image: testImage})
	ctx := context.Background()

	sbx, err := p.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() {
		if err := sbx.Destroy(ctx); err != nil {
			t.Errorf("destroy: %v", err)
		}
	}()

	res, err := sbx.RunCommand(ctx, `echo "benchmark"`, engine.CommandOptions{})
	if err != nil {
		t.Fatalf("run command: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "benchmark" {
		t.Errorf("stdout = %q, want benchmark", res.Stdout)
	}

	res, err = sbx.RunCommand(ctx, "exit 5", engine.CommandOptions{})
	if err != nil {
		t.Fatalf("run command: %v", err)
	}
	if res.ExitCode != 5 {
		t.Errorf("exit code = %d, want 5", res.ExitCode)
	}
}

func TestDockerProvider_DefaultImage(t *testing.T) {
	p := NewDocker(config.DockerConfig{})
	if p.image != "alpine:latest" {
		t.Errorf("image = %q, want alpine:latest", p.image)
	}
}
