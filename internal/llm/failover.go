package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/soyeahso/dugout/internal/logging"
)

// Failover tries each responder in order, moving on only when a failure
// looks transient (auth, rate limit, server errors, unreachable host).
type Failover struct {
	clients []Client
	log     *logging.Logger
}

// NewFailover wraps primary with the given fallbacks.
func NewFailover(log *logging.Logger, primary Client, fallbacks ...Client) *Failover {
	return &Failover{
		clients: append([]Client{primary}, fallbacks...),
		log:     log.Sub("failover"),
	}
}

// Name returns the primary responder's name.
func (f *Failover) Name() string { return f.clients[0].Name() }

// Complete asks the primary, then each fallback on retryable errors.
func (f *Failover) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for i, c := range f.clients {
		resp, err := c.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				f.log.Info().Str("responder", c.Name()).Msg("answered by fallback")
			}
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(err) {
			return nil, err
		}
		f.log.Warn().Str("responder", c.Name()).Err(err).Msg("retryable error, trying next responder")
	}
	return nil, lastErr
}

// isRetryable checks if the error suggests trying another responder.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case 401, 403, 429, 500, 502, 503, 529:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "capacity") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host")
}
