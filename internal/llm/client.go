// Package llm defines the responders that write agent output for the local
// orchestration service.
//
// Two responders exist: Scripted, which derives a deterministic answer from
// the agent's preamble and prompt, and Ollama, which asks a locally running
// model over HTTP.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/dugout/internal/config"
	"github.com/soyeahso/dugout/internal/logging"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Prompt returns the content of the last user message.
func (r CompletionRequest) Prompt() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// CompletionResponse is the result of a completion.
type CompletionResponse struct {
	Content  string        `json:"content"`
	Model    string        `json:"model,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Client is the interface every responder implements.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the responder name (e.g., "scripted", "ollama").
	Name() string
}

// ProviderError is returned when a responder fails.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP status code when the failure came from a remote model
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// New builds the responder selected by the server configuration, wrapped
// in a Failover when fallbacks are configured.
func New(cfg config.ServerConfig, log *logging.Logger) (Client, error) {
	primary, err := newResponder(cfg.Responder, cfg, log)
	if err != nil {
		return nil, err
	}
	if len(cfg.Fallback) == 0 {
		return primary, nil
	}

	fallbacks := make([]Client, 0, len(cfg.Fallback))
	for _, name := range cfg.Fallback {
		c, err := newResponder(name, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		fallbacks = append(fallbacks, c)
	}
	return NewFailover(log, primary, fallbacks...), nil
}

func newResponder(name string, cfg config.ServerConfig, log *logging.Logger) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "scripted":
		return NewScripted(), nil
	case "ollama":
		if cfg.Ollama.Model == "" {
			return nil, fmt.Errorf("ollama responder requires a model")
		}
		return NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.Model, log), nil
	default:
		return nil, fmt.Errorf("unknown responder %q", name)
	}
}
