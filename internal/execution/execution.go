// Package execution runs a single agent against free-text input and tracks
// the lifecycle of that request for the surface that opened it.
package execution

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/logging"
)

var (
	// ErrEmptyInput means the input is blank.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInFlight means a request is already outstanding on the session.
	ErrInFlight = errors.New("a request is already in flight for this session")

	// ErrClosed means the session was closed.
	ErrClosed = errors.New("session is closed")

	// ErrStale means the session was reset or closed while the request was
	// outstanding; the response was discarded.
	ErrStale = errors.New("response discarded: session changed")
)

// Status is the lifecycle state of an execution session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Executor is the part of the service API the controller needs.
type Executor interface {
	ExecuteAgent(ctx context.Context, agentType, input string) (*api.ExecuteResponse, error)
}

// Session is the state of one open agent panel. Read it through Snapshot.
type Session struct {
	mu     sync.Mutex
	agent  domain.Agent
	input  string
	status Status
	result string
	errMsg string
	gen    uint64
	closed bool
}

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	Agent  domain.Agent
	Input  string
	Status Status
	Result string // set when Status is succeeded
	Error  string // set when Status is failed
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Agent:  s.agent.Clone(),
		Input:  s.input,
		Status: s.status,
		Result: s.result,
		Error:  s.errMsg,
	}
}

// AgentID returns the id of the agent the session is bound to.
func (s *Session) AgentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.ID
}

// Controller drives execution sessions.
type Controller struct {
	remote Executor
	hooks  hooks.Emitter
	log    *logging.Logger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHooks fires agent_executed on e after each applied response.
func WithHooks(e hooks.Emitter) Option {
	return func(c *Controller) { c.hooks = e }
}

// New creates a controller backed by remote.
func New(remote Executor, log *logging.Logger, opts ...Option) *Controller {
	c := &Controller{remote: remote, log: log.Sub("execution")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts an idle session for agent. The agent metadata is copied, so
// later catalog changes do not affect the session.
func (c *Controller) Open(agent domain.Agent) *Session {
	return &Session{agent: agent.Clone(), status: StatusIdle}
}

// Submit runs the session's agent on text. It issues exactly one request
// and records the outcome on the session unless the session was reset or
// closed in the meantime.
func (c *Controller) Submit(ctx context.Context, s *Session, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.status == StatusSubmitting:
		s.mu.Unlock()
		return ErrInFlight
	}
	s.status = StatusSubmitting
	s.input = text
	s.result = ""
	s.errMsg = ""
	gen := s.gen
	agentID := s.agent.ID
	s.mu.Unlock()

	c.log.Debug().Str("agent", agentID).Int("inputLen", len(text)).Msg("submitting")
	resp, err := c.remote.ExecuteAgent(ctx, agentID, text)

	s.mu.Lock()
	if s.closed || s.gen != gen {
		s.mu.Unlock()
		c.log.Debug().Str("agent", agentID).Msg("discarding stale response")
		return ErrStale
	}
	if err != nil {
		s.status = StatusFailed
		s.errMsg = api.Detail(err)
		msg := s.errMsg
		s.mu.Unlock()

		c.log.Warn().Err(err).Str("agent", agentID).Msg("agent execution failed")
		c.emit(ctx, agentID, StatusFailed, msg)
		return err
	}
	s.status = StatusSucceeded
	s.result = resp.Result
	s.mu.Unlock()

	c.log.Info().Str("agent", agentID).Int("resultLen", len(resp.Result)).Msg("agent executed")
	c.emit(ctx, agentID, StatusSucceeded, "")
	return nil
}

// Reset returns the session to idle and abandons any outstanding request.
func (c *Controller) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close resets the session and rejects further submissions.
func (c *Controller) Close(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) resetLocked() {
	s.gen++
	s.status = StatusIdle
	s.input = ""
	s.result = ""
	s.errMsg = ""
}

func (c *Controller) emit(ctx context.Context, agentID string, status Status, errMsg string) {
	if c.hooks == nil {
		return
	}
	data := map[string]any{"agent": agentID, "status": string(status)}
	if errMsg != "" {
		data["error"] = errMsg
	}
	c.hooks.EmitAsync(context.WithoutCancel(ctx), hooks.EventAgentExecuted, data)
}
