/*
PURPOSE:
  HTTP client for a relay-style sandbox REST API.
  Handles sandbox creation, streamed command execution (SSE), and teardown.

REQUIREMENTS:
  User-specified:
  - Execute commands against the exec endpoint and reconstruct the full
    result from the text/event-stream response.
  - Resilience against fragmented frames and mid-stream errors.

  Implementation-discovered:
  - Needs http.Client without a global timeout; execution streams outlive any
    sane fixed value, so deadlines come in through the request context.
  - ResponseHeaderTimeout still applies: headers arriving late means the
    sandbox is wedged, not working.

ARCHITECTURE INTEGRATION:
  - Called by: internal/provider/relay.go
  - Uses: internal/engine/stream.go, internal/engine/events.go, internal/model

ERROR HANDLING:
  - Non-2xx -> *TransportError with status and truncated body.
  - Ambiguous stream endings -> *StreamProtocolError (from the assembler).
  - Context cancellation aborts the request at the transport; the error
    surfaces to the timeout wrapper for labeling.

IMPLEMENTATION RULES:
  - Use net/http; read the body in raw chunks, never bufio.Scanner (a single
    oversized data line must not kill the stream).

USAGE:
  c := engine.NewClient(baseURL, apiKey)
  id, err := c.CreateSandbox(ctx)
  res, err := c.Exec(ctx, id, engine.ExecRequest{Command: `echo "benchmark"`})
  err = c.DestroySandbox(ctx, id)

SELF-HEALING INSTRUCTIONS:
  - If the relay API changes, update the endpoint paths here only.

RELATED FILES:
  - internal/provider/relay.go
  - internal/engine/events.go

MAINTENANCE:
  - Update for new relay API capabilities.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// readChunkSize is the transport read granularity. Deliberately small-ish;
// the decoder is chunk-boundary agnostic anyway.
const readChunkSize = 4096

// Client talks to one relay sandbox API endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a relay API client. The returned client carries no
// overall timeout; callers bound each call through its context.
func NewClient(baseURL, apiKey string) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Headers arriving late means the sandbox is wedged, not streaming.
	transport.ResponseHeaderTimeout = 60 * time.Second

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Transport: transport},
	}
}

// ExecRequest describes one command execution.
type ExecRequest struct {
	Command    string `json:"command"`
	Cwd        string `json:"cwd,omitempty"`
	TimeoutSec int    `json:"timeout,omitempty"`
	Background bool   `json:"background,omitempty"`
}

// CreateSandbox provisions a new sandbox and returns its ID.
func (c *Client) CreateSandbox(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/sandboxes", c.BaseURL), bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", transportError(resp)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}
	if payload.ID == "" {
		return "", errors.New("create response carried no sandbox id")
	}
	return payload.ID, nil
}

// Exec runs one command in the sandbox and assembles the streamed result.
// The context both bounds and aborts the request: on cancellation the
// remote request is genuinely abandoned, not merely ignored locally.
func (c *Client) Exec(ctx context.Context, sandboxID string, execReq ExecRequest) (model.CommandResult, error) {
	body, err := json.Marshal(execReq)
	if err != nil {
		return model.CommandResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/sandboxes/%s/exec", c.BaseURL, sandboxID), bytes.NewReader(body))
	if err != nil {
		return model.CommandResult{}, err
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.CommandResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.CommandResult{}, transportError(resp)
	}

	return c.readStream(ctx, resp.Body)
}

// readStream drives the decoder/assembler pair over the response body.
func (c *Client) readStream(ctx context.Context, body io.Reader) (model.CommandResult, error) {
	var (
		decoder   LineDecoder
		assembler EventAssembler
	)

	buf := make([]byte, readChunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, line := range decoder.Feed(buf[:n]) {
				assembler.Line(line)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Prefer the deadline over the transport's wrapped version of it
			// so the timeout wrapper labels the step correctly.
			if ctx.Err() != nil {
				return model.CommandResult{}, ctx.Err()
			}
			return model.CommandResult{}, fmt.Errorf("reading exec stream: %w", readErr)
		}
	}

	if line, ok := decoder.Flush(); ok {
		assembler.Line(line)
	}
	return assembler.Result()
}

// DestroySandbox tears the sandbox down. Callers decide whether failures
// matter; the orchestrator swallows them.
func (c *Client) DestroySandbox(ctx context.Context, sandboxID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/v1/sandboxes/%s", c.BaseURL, sandboxID), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

// transportError drains a failed response into a *TransportError.
func transportError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
}
