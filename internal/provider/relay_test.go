package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
)

func TestRelayProvider_Available(t *testing.T) {
	t.Run("missing base url", func(t *testing.T) {
		p := NewRelay(config.RelayConfig{})
		if err := p.Available(); err == nil {
			t.Error("expected error without base_url")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("RELAY_TEST_KEY", "")
		p := NewRelay(config.RelayConfig{BaseURL: "http://x", APIKeyEnv: "RELAY_TEST_KEY"})
		err := p.Available()
		if err == nil || !strings.Contains(err.Error(), "Missing credentials: RELAY_TEST_KEY") {
			t.Errorf("error = %v, want missing-credentials naming the variable", err)
		}
	})

	t.Run("credentials present", func(t *testing.T) {
		t.Setenv("RELAY_TEST_KEY", "k")
		p := NewRelay(config.RelayConfig{BaseURL: "http://x", APIKeyEnv: "RELAY_TEST_KEY"})
		if err := p.Available(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("no key env configured means open endpoint", func(t *testing.T) {
		p := NewRelay(config.RelayConfig{BaseURL: "http://x"})
		if err := p.Available(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// Full lifecycle against a fake relay: create, exec over SSE, destroy.
func TestRelayProvider_Lifecycle(t *testing.T) {
	var destroyed bool

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sandboxes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "sbx-1"})
	})
	mux.HandleFunc("POST /v1/sandboxes/sbx-1/exec", func(w http.ResponseWriter, r *http.Request) {
		var req engine.ExecRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding exec request: %v", err)
		}
		if req.Cwd != "/workspace" || req.TimeoutSec != 30 {
			t.Errorf("exec request = %+v, want mapped options", req)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: stdout\ndata: benchmark\n\nevent: exit\ndata: 0\n\n")
	})
	mux.HandleFunc("DELETE /v1/sandboxes/sbx-1", func(w http.ResponseWriter, r *http.Request) {
		destroyed = true
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewRelay(config.RelayConfig{BaseURL: srv.URL})
	sbx, err := p.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := sbx.RunCommand(context.Background(), `echo "benchmark"`, engine.CommandOptions{
		Cwd:     "/workspace",
		Timeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("run command: %v", err)
	}
	if res.Stdout != "benchmark" || res.ExitCode != 0 {
		t.Errorf("result = %+v", res)
	}

	if err := sbx.Destroy(context.Background()); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if !destroyed {
		t.Error("destroy never reached the relay")
	}
}
