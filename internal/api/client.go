// Package api provides a client for the voice assistant backend's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentplexus/voicepanel"
	"github.com/agentplexus/voicepanel/panel"
)

// Verify interface compliance at compile time.
var _ panel.Backend = (*Client)(nil)

// DefaultBaseURL is where the backend listens when run locally.
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures the client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new backend client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base url must be http or https: %s", baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

type saveResponse struct {
	Status string                     `json:"status"`
	Config voicepanel.AssistantConfig `json:"config"`
}

// GetConfig returns the current assistant configuration.
func (c *Client) GetConfig(ctx context.Context) (*voicepanel.AssistantConfig, error) {
	var cfg voicepanel.AssistantConfig
	if err := c.send(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig replaces the assistant configuration and returns what the
// backend stored.
func (c *Client) SaveConfig(ctx context.Context, cfg voicepanel.AssistantConfig) (*voicepanel.AssistantConfig, error) {
	var resp saveResponse
	if err := c.send(ctx, http.MethodPost, "/api/config", cfg, &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

// PlaceCall initiates an outbound call.
func (c *Client) PlaceCall(ctx context.Context, req voicepanel.CallRequest) (*voicepanel.CallResult, error) {
	var result voicepanel.CallResult
	if err := c.send(ctx, http.MethodPost, "/api/call", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Error is a non-2xx backend response.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Detail
}

// errorBody is the error shape of the backend. Validation failures carry a
// list of objects in detail instead of a string.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Detail: detail(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func detail(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || len(eb.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}
	return string(eb.Detail)
}
