/*
PURPOSE:
  Concrete sandbox backends behind the engine's Provider capability, plus
  the name -> backend resolution used by the CLI.

REQUIREMENTS:
  User-specified:
  - One implementation per backend; the engine never sees a backend's shape.

  Implementation-discovered:
  - Unknown provider names must fail loudly at startup, not mid-run.

ARCHITECTURE INTEGRATION:
  - Implements: internal/engine Provider/Sandbox interfaces
  - Called by: internal/cli

ERROR HANDLING:
  - FromConfig rejects unknown names with the known set listed.

IMPLEMENTATION RULES:
  - New backends register here and nowhere else.

USAGE:
  providers, err := provider.FromConfig(cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/provider.go
  - internal/provider/{relay,local,docker}.go

MAINTENANCE:
  - Keep the known-provider list in the error message current.
*/

package provider

import (
	"fmt"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
)

// FromConfig resolves the configured provider names into concrete backends.
func FromConfig(cfg *config.Config) ([]engine.Provider, error) {
	providers := make([]engine.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "local":
			providers = append(providers, NewLocal())
		case "docker":
			providers = append(providers, NewDocker(cfg.Docker))
		case "relay":
			providers = append(providers, NewRelay(cfg.Relay))
		default:
			return nil, fmt.Errorf("unknown provider %q (known: local, docker, relay)", name)
		}
	}
	return providers, nil
}
