package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Scripted answers without a model. The reply is built from the preamble's
// first line and its "- " bullet points, so the same request always yields
// the same text.
type Scripted struct{}

// NewScripted returns the deterministic responder.
func NewScripted() *Scripted { return &Scripted{} }

// Name returns the responder name.
func (s *Scripted) Name() string { return "scripted" }

// Complete composes a reply for the last user message.
func (s *Scripted) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	prompt := strings.TrimSpace(req.Prompt())
	if prompt == "" {
		return nil, &ProviderError{Provider: s.Name(), Message: "empty prompt"}
	}

	var b strings.Builder
	if persona := persona(req.System); persona != "" {
		b.WriteString(persona)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Request: %s\n", prompt)

	points := bullets(req.System)
	if len(points) > 0 {
		b.WriteString("\nPlan:\n")
		for i, p := range points {
			fmt.Fprintf(&b, "%d. %s.\n", i+1, strings.TrimSuffix(p, "."))
		}
	}
	b.WriteString("\nReview progress after the next session and adjust as needed.")

	return &CompletionResponse{
		Content:  b.String(),
		Model:    s.Name(),
		Duration: time.Since(start),
	}, nil
}

// persona returns the first non-empty line of the preamble.
func persona(system string) string {
	for line := range strings.Lines(system) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func bullets(system string) []string {
	var out []string
	for line := range strings.Lines(system) {
		line = strings.TrimSpace(line)
		if item, ok := strings.CutPrefix(line, "- "); ok && item != "" {
			out = append(out, item)
		}
	}
	return out
}
