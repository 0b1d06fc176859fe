package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/version"
)

// DefaultOllamaURL is used when no base URL is configured.
const DefaultOllamaURL = "http://localhost:11434"

// Ollama is a direct HTTP client for the Ollama generate API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	log     *logging.Logger
}

// OllamaOption configures an Ollama client.
type OllamaOption func(*Ollama)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(o *Ollama) { o.client = c }
}

// NewOllama creates an Ollama client.
// baseURL should be like "http://localhost:11434".
func NewOllama(baseURL, model string, log *logging.Logger, opts ...OllamaOption) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	o := &Ollama{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     log.Sub("llm.ollama"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name returns the responder name.
func (o *Ollama) Name() string { return "ollama" }

// Complete sends a non-streaming generate request.
func (o *Ollama) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := o.model
	if req.Model != "" {
		model = req.Model
	}
	body := ollamaRequest{
		Model:  model,
		System: req.System,
		Prompt: o.buildPrompt(req),
		Stream: false,
	}
	if req.Temperature != nil {
		body.Options = &ollamaOptions{Temperature: *req.Temperature}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: o.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return nil, &ProviderError{Provider: o.Name(), Message: msg, Code: resp.StatusCode}
	}

	var result ollamaResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	o.log.Debug().
		Str("model", model).
		Int("evalCount", result.EvalCount).
		Dur("elapsed", time.Since(start)).
		Msg("completion finished")

	return &CompletionResponse{
		Content:  result.Response,
		Model:    model,
		Duration: time.Since(start),
	}, nil
}

// buildPrompt flattens the conversation; the system preamble travels in its own field.
func (o *Ollama) buildPrompt(req CompletionRequest) string {
	var prompt strings.Builder
	for _, msg := range req.Messages {
		if msg.Role != RoleUser {
			prompt.WriteString(msg.Role + ": ")
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n\n")
	}
	return strings.TrimSpace(prompt.String())
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Model         string `json:"model"`
	CreatedAt     string `json:"created_at"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	TotalDuration int64  `json:"total_duration"`
	EvalCount     int    `json:"eval_count"`
}
