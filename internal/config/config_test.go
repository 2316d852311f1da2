package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Iterations != 5 {
		t.Errorf("iterations = %d, want default 5", cfg.Iterations)
	}
	if cfg.CreateTimeout != 60*time.Second {
		t.Errorf("create_timeout = %s, want 60s", cfg.CreateTimeout)
	}
	if w := cfg.Weights; w.Median != 0.50 || w.P95 != 0.20 || w.P99 != 0.10 || w.Min != 0.05 || w.Max != 0.15 {
		t.Errorf("weights = %+v, want defaults", w)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	data := `
providers: [docker, relay]
iterations: 3
warmup: true
create_timeout: 90s
workload:
  setup: "apk add nodejs"
  command: "node -e 'console.log(1)'"
  timeout: 45s
weights: {median: 0.6, p95: 0.2, p99: 0.1, min: 0.05, max: 0.05}
relay:
  base_url: https://relay.example.com
  api_key_env: RELAY_API_KEY
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0] != "docker" {
		t.Errorf("providers = %v", cfg.Providers)
	}
	if cfg.Iterations != 3 || !cfg.Warmup {
		t.Errorf("iterations/warmup = %d/%v", cfg.Iterations, cfg.Warmup)
	}
	if cfg.CreateTimeout != 90*time.Second {
		t.Errorf("create_timeout = %s", cfg.CreateTimeout)
	}
	if !cfg.Workload.Configured() || cfg.Workload.Timeout != 45*time.Second {
		t.Errorf("workload = %+v", cfg.Workload)
	}
	if cfg.Weights.Median != 0.6 {
		t.Errorf("median weight = %v", cfg.Weights.Median)
	}
	if cfg.Relay.BaseURL != "https://relay.example.com" || cfg.Relay.APIKeyEnv != "RELAY_API_KEY" {
		t.Errorf("relay = %+v", cfg.Relay)
	}
}

func TestLoad_InvalidIterations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("iterations: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for iterations: 0")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a user-specified file that does not exist")
	}
}

func TestWorkloadConfigured(t *testing.T) {
	var w *WorkloadConfig
	if w.Configured() {
		t.Error("nil workload reported configured")
	}
	if (&WorkloadConfig{}).Configured() {
		t.Error("empty workload reported configured")
	}
	if !(&WorkloadConfig{Setup: "x"}).Configured() {
		t.Error("setup-only workload reported unconfigured")
	}
	if !(&WorkloadConfig{Command: "y"}).Configured() {
		t.Error("command-only workload reported unconfigured")
	}
}
