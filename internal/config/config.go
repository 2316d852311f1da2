/*
PURPOSE:
  Defines the configuration structure and loading logic for Sandbox Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of providers, iteration count, workload commands,
    timeouts, and scoring weights.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Provider credentials come from the environment; a local .env file is
    honored so runs don't depend on shell setup.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/provider
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if a user-specified config file is invalid.
  - A missing default file is not an error (falls back to defaults).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (5 iterations, 60s creation timeout).

USAGE:
  cfg, err := config.Load("sandbox_runner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update Load() defaults.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// WorkloadConfig describes the optional post-smoke workload phase.
type WorkloadConfig struct {
	// Setup runs once before the workload command (e.g. dependency install).
	Setup string `yaml:"setup"`
	// Command is the workload itself.
	Command string `yaml:"command"`
	// Timeout bounds setup and workload individually.
	Timeout time.Duration `yaml:"timeout"`
}

// Configured reports whether any workload phase is defined at all.
func (w *WorkloadConfig) Configured() bool {
	return w != nil && (w.Setup != "" || w.Command != "")
}

// RelayConfig points at a relay-style sandbox REST API.
type RelayConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the bearer token.
	APIKeyEnv string `yaml:"api_key_env"`
}

// DockerConfig configures the Docker-backed provider.
type DockerConfig struct {
	Image string `yaml:"image"`
}

// Config represents the full configuration for Sandbox Runner.
type Config struct {
	Providers     []string             `yaml:"providers"`
	Iterations    int                  `yaml:"iterations"`
	Warmup        bool                 `yaml:"warmup"`
	CreateTimeout time.Duration        `yaml:"create_timeout"`
	Workload      *WorkloadConfig      `yaml:"workload"`
	Weights       model.ScoringWeights `yaml:"weights"`
	OutputDir     string               `yaml:"output_dir"`
	OutputFile    string               `yaml:"output_file"` // Base name; run ID and extension are appended.
	Relay         RelayConfig          `yaml:"relay"`
	Docker        DockerConfig         `yaml:"docker"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Providers:     []string{"local"},
		Iterations:    5,
		Warmup:        false,
		CreateTimeout: 60 * time.Second,
		Weights:       model.DefaultWeights(),
		OutputDir:     ".",
		OutputFile:    "provider_results",
		Docker:        DockerConfig{Image: "alpine:latest"},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// A .env file in the working directory is loaded first so provider
// credential lookups see it.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case; ignore.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		// Search for defaults
		defaults := []string{"sandbox_runner.yaml", "runner.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			// No config file found, return default
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("config file %s: iterations must be >= 1", path)
	}

	return cfg, nil
}
