/*
PURPOSE:
  Relay provider adapter: sandboxes behind a relay-style REST API whose exec
  endpoint streams results as text/event-stream. This is the one backend the
  engine's protocol layer (decoder + assembler) talks to directly.

REQUIREMENTS:
  User-specified:
  - create / runCommand / destroy over HTTP.
  - Bearer token from a configurable environment variable.

  Implementation-discovered:
  - Availability check must name the missing variable so the skip reason is
    actionable.

ARCHITECTURE INTEGRATION:
  - Implements: engine.Provider / engine.Sandbox
  - Uses: internal/engine/client.go

ERROR HANDLING:
  - Transport and protocol failures pass through from the engine client.

IMPLEMENTATION RULES:
  - One engine.Client per provider instance; sandboxes share it.

USAGE:
  p := provider.NewRelay(cfg.Relay)

SELF-HEALING INSTRUCTIONS:
  - API path changes belong in internal/engine/client.go, not here.

RELATED FILES:
  - internal/engine/client.go

MAINTENANCE:
  - None expected.
*/

package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
	"github.com/daryltucker/sandbox-runner/internal/model"
)

// RelayProvider drives sandboxes behind a relay REST API.
type RelayProvider struct {
	cfg    config.RelayConfig
	client *engine.Client
}

// NewRelay creates the relay provider. The API key is resolved lazily in
// Available/Create so construction never needs credentials.
func NewRelay(cfg config.RelayConfig) *RelayProvider {
	return &RelayProvider{cfg: cfg}
}

func (p *RelayProvider) Name() string { return "relay" }

// Available verifies the endpoint and credentials are configured.
func (p *RelayProvider) Available() error {
	if p.cfg.BaseURL == "" {
		return fmt.Errorf("relay.base_url not configured")
	}
	if p.cfg.APIKeyEnv != "" && os.Getenv(p.cfg.APIKeyEnv) == "" {
		return fmt.Errorf("Missing credentials: %s", p.cfg.APIKeyEnv)
	}
	return nil
}

// Create provisions a sandbox through the relay API.
func (p *RelayProvider) Create(ctx context.Context) (engine.Sandbox, error) {
	if p.client == nil {
		p.client = engine.NewClient(p.cfg.BaseURL, os.Getenv(p.cfg.APIKeyEnv))
	}
	id, err := p.client.CreateSandbox(ctx)
	if err != nil {
		return nil, err
	}
	return &relaySandbox{client: p.client, id: id}, nil
}

type relaySandbox struct {
	client *engine.Client
	id     string
}

func (s *relaySandbox) RunCommand(ctx context.Context, command string, opts engine.CommandOptions) (model.CommandResult, error) {
	return s.client.Exec(ctx, s.id, engine.ExecRequest{
		Command:    command,
		Cwd:        opts.Cwd,
		TimeoutSec: int(opts.Timeout.Seconds()),
		Background: opts.Background,
	})
}

func (s *relaySandbox) Destroy(ctx context.Context) error {
	return s.client.DestroySandbox(ctx, s.id)
}
