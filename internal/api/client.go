// Package api is the HTTP/JSON client for the agent orchestration service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/version"
)

// Client talks to the orchestration service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the service at baseURL.
func New(baseURL string, log *logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log.Sub("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListAgents fetches the agent catalog.
func (c *Client) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var out AgentList
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// ExecuteAgent runs one agent on free-text input.
func (c *Client) ExecuteAgent(ctx context.Context, agentType, input string) (*ExecuteResponse, error) {
	var out ExecuteResponse
	req := ExecuteRequest{AgentType: agentType, InputData: input}
	if err := c.do(ctx, http.MethodPost, "/api/agent/execute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteWorkflow runs the team preparation pipeline.
func (c *Client) ExecuteWorkflow(ctx context.Context, matchInfo, playerName string) (*WorkflowResponse, error) {
	var out WorkflowResponse
	req := WorkflowRequest{MatchInfo: matchInfo, PlayerName: playerName}
	if err := c.do(ctx, http.MethodPost, "/api/workflow/execute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWorkflows returns the workflow runs the service knows about.
func (c *Client) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	var out WorkflowList
	if err := c.do(ctx, http.MethodGet, "/api/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out.Workflows, nil
}

// CreateCustomAgent mirrors a user-defined agent to the service.
func (c *Client) CreateCustomAgent(ctx context.Context, agent domain.Agent) (*domain.Agent, error) {
	var out domain.Agent
	if err := c.do(ctx, http.MethodPost, "/api/agents/custom", agent, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomAgent removes a user-defined agent from the service.
func (c *Client) DeleteCustomAgent(ctx context.Context, id string) error {
	var out DeleteResponse
	return c.do(ctx, http.MethodDelete, "/api/agents/custom/"+url.PathEscape(id), nil, &out)
}

// Health checks that the service is reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(respBody),
			Body:       string(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
