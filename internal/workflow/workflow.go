// Package workflow runs the multi-agent team preparation pipeline and keeps
// the per-task outcome for display.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/logging"
)

var (
	// ErrEmptyInput means match information or player name is blank.
	ErrEmptyInput = errors.New("match information and player name are required")

	// ErrInFlight means a workflow is already running on the session.
	ErrInFlight = errors.New("a workflow is already running for this session")

	// ErrClosed means the session was closed.
	ErrClosed = errors.New("session is closed")

	// ErrStale means the session was reset or closed while the workflow
	// was running; the response was discarded.
	ErrStale = errors.New("response discarded: session changed")
)

// Status is the lifecycle state of a workflow session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Runner is the part of the service API the controller needs.
type Runner interface {
	ExecuteWorkflow(ctx context.Context, matchInfo, playerName string) (*api.WorkflowResponse, error)
}

// Session is the state of one open workflow panel.
type Session struct {
	mu         sync.Mutex
	matchInfo  string
	playerName string
	status     Status
	tasks      []domain.Task
	expanded   string
	workflowID string
	message    string
	errMsg     string
	gen        uint64
	closed     bool
}

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	MatchInfo  string
	PlayerName string
	Status     Status
	Tasks      []domain.Task
	Expanded   string // id of the expanded task, or ""
	WorkflowID string
	Message    string
	Error      string // set when Status is failed
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		MatchInfo:  s.matchInfo,
		PlayerName: s.playerName,
		Status:     s.status,
		Tasks:      append([]domain.Task(nil), s.tasks...),
		Expanded:   s.expanded,
		WorkflowID: s.workflowID,
		Message:    s.message,
		Error:      s.errMsg,
	}
}

// Controller drives workflow sessions.
type Controller struct {
	remote Runner
	hooks  hooks.Emitter
	log    *logging.Logger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHooks fires workflow_executed on e after each applied response.
func WithHooks(e hooks.Emitter) Option {
	return func(c *Controller) { c.hooks = e }
}

// New creates a controller backed by remote.
func New(remote Runner, log *logging.Logger, opts ...Option) *Controller {
	c := &Controller{remote: remote, log: log.Sub("workflow")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts an idle workflow session.
func (c *Controller) Open() *Session {
	return &Session{status: StatusIdle}
}

// Execute runs the pipeline once. The task list is replaced in one step
// when the response arrives; until then it is empty.
func (c *Controller) Execute(ctx context.Context, s *Session, matchInfo, playerName string) error {
	if strings.TrimSpace(matchInfo) == "" || strings.TrimSpace(playerName) == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.status == StatusRunning:
		s.mu.Unlock()
		return ErrInFlight
	}
	s.status = StatusRunning
	s.matchInfo = matchInfo
	s.playerName = playerName
	s.tasks = nil
	s.expanded = ""
	s.workflowID = ""
	s.message = ""
	s.errMsg = ""
	gen := s.gen
	s.mu.Unlock()

	c.log.Debug().Str("match", matchInfo).Str("player", playerName).Msg("executing workflow")
	resp, err := c.remote.ExecuteWorkflow(ctx, matchInfo, playerName)

	s.mu.Lock()
	if s.closed || s.gen != gen {
		s.mu.Unlock()
		c.log.Debug().Msg("discarding stale workflow response")
		return ErrStale
	}
	if err != nil {
		s.status = StatusFailed
		s.errMsg = api.Detail(err)
		s.mu.Unlock()

		c.log.Warn().Err(err).Msg("workflow execution failed")
		c.emit(ctx, map[string]any{"status": string(StatusFailed), "error": api.Detail(err)})
		return err
	}
	s.status = StatusCompleted
	s.tasks = append([]domain.Task(nil), resp.Tasks...)
	s.workflowID = resp.WorkflowID
	s.message = resp.Message
	s.mu.Unlock()

	c.log.Info().Str("workflow", resp.WorkflowID).Int("tasks", len(resp.Tasks)).Msg("workflow executed")
	c.emit(ctx, map[string]any{
		"status":     string(StatusCompleted),
		"workflowId": resp.WorkflowID,
		"tasks":      len(resp.Tasks),
		"failed":     countStatus(resp.Tasks, domain.TaskFailed),
	})
	return nil
}

// ToggleExpand collapses taskID if it is expanded, otherwise expands it
// and collapses any other task.
func (c *Controller) ToggleExpand(s *Session, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded == taskID {
		s.expanded = ""
		return
	}
	s.expanded = taskID
}

// Reset returns the session to idle and abandons any running workflow.
func (c *Controller) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close resets the session and rejects further executions.
func (c *Controller) Close(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) resetLocked() {
	s.gen++
	s.status = StatusIdle
	s.matchInfo = ""
	s.playerName = ""
	s.tasks = nil
	s.expanded = ""
	s.workflowID = ""
	s.message = ""
	s.errMsg = ""
}

func (c *Controller) emit(ctx context.Context, data map[string]any) {
	if c.hooks == nil {
		return
	}
	c.hooks.EmitAsync(context.WithoutCancel(ctx), hooks.EventWorkflowExecuted, data)
}

// Summary describes a finished workflow, e.g. "5 of 5 agents executed".
func Summary(tasks []domain.Task) string {
	return fmt.Sprintf("%d of %d agents executed", len(tasks), len(tasks))
}

func countStatus(tasks []domain.Task, status domain.TaskStatus) int {
	n := 0
	for _, t := range tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}
