package provider

import (
	"strings"
	"testing"

	"github.com/daryltucker/sandbox-runner/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers = []string{"local", "docker", "relay"}

	providers, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(providers) != 3 {
		t.Fatalf("providers = %d, want 3", len(providers))
	}
	for i, want := range []string{"local", "docker", "relay"} {
		if providers[i].Name() != want {
			t.Errorf("provider %d = %s, want %s", i, providers[i].Name(), want)
		}
	}
}

func TestFromConfig_UnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers = []string{"modal"}

	_, err := FromConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), `unknown provider "modal"`) {
		t.Errorf("error = %v, want unknown-provider naming the input", err)
	}
}
