package provider

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/sandbox-runner/internal/engine"
)

func skipIfNoShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

func newLocalSandbox(t *testing.T) engine.Sandbox {
	t.Helper()
	skipIfNoShell(t)

	p := NewLocal()
	sbx, err := p.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		if err := sbx.Destroy(context.Background()); err != nil {
			t.Errorf("destroy: %v", err)
		}
	})
	return sbx
}

func TestLocalSandbox_BasicExecution(t *testing.T) {
	sbx := newLocalSandbox(t)

	res, err := sbx.RunCommand(context.Background(), `echo "benchmark"`, engine.CommandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "benchmark" {
		t.Errorf("stdout = %q, want benchmark", res.Stdout)
	}
}

func TestLocalSandbox_NonZeroExitIsResultNotError(t *testing.T) {
	sbx := newLocalSandbox(t)

	res, err := sbx.RunCommand(context.Background(), "echo oops >&2; exit 3", engine.CommandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Errorf("stderr = %q, want oops", res.Stderr)
	}
}

func TestLocalSandbox_TimeoutCancelsCommand(t *testing.T) {
	sbx := newLocalSandbox(t)

	start := time.Now()
	_, err := sbx.RunCommand(context.Background(), "sleep 30", engine.CommandOptions{Timeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("command ran for %s past its timeout", elapsed)
	}
}

func TestLocalSandbox_IsolatedWorkspace(t *testing.T) {
	skipIfNoShell(t)

	p := NewLocal()
	sbx, err := p.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := sbx.RunCommand(context.Background(), "pwd", engine.CommandOptions{})
	if err != nil {
		t.Fatalf("pwd: %v", err)
	}
	dir := strings.TrimSpace(res.Stdout)
	if !strings.Contains(dir, "sandbox-runner-") {
		t.Errorf("workspace = %q, want a sandbox-runner temp dir", dir)
	}

	if err := sbx.Destroy(context.Background()); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("workspace %s still exists after destroy", dir)
	}
}

func TestLocalProvider_Available(t *testing.T) {
	skipIfNoShell(t)
	if err := NewLocal().Available(); err != nil {
		t.Errorf("local provider unavailable: %v", err)
	}
}
