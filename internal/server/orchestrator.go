package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/llm"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/store"
)

// ErrUnknownAgent is returned when no built-in or custom agent has the id.
var ErrUnknownAgent = errors.New("unknown agent")

const (
	// WorkflowName names the team preparation pipeline.
	WorkflowName = "Team Preparation Workflow"
	// DefaultPlayerName is used when a workflow request names nobody.
	DefaultPlayerName = "Team Players"
	// PreviewLimit bounds the characters kept in a task's result preview.
	PreviewLimit = 500
)

// step is one node of the workflow graph. deps index earlier steps.
type step struct {
	agent string
	input func(match, player string) string
	deps  []int
}

// preparation is head_coach, then the three specialists, then the player.
var preparation = []step{
	{agent: "head_coach", input: func(m, _ string) string { return m }},
	{agent: "batting_coach", input: func(_, p string) string { return p }, deps: []int{0}},
	{agent: "bowling_coach", input: func(_, p string) string { return p }, deps: []int{0}},
	{agent: "head_physio", input: func(_, p string) string { return p }, deps: []int{0}},
	{agent: "player", input: func(_, p string) string { return p }, deps: []int{1, 2, 3}},
}

// Orchestrator runs agents against the configured responder and records
// workflow runs.
type Orchestrator struct {
	llm    llm.Client
	agents *store.AgentStore
	runs   *store.WorkflowStore
	log    *logging.Logger
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator backed by db.
func NewOrchestrator(client llm.Client, db *store.DB, log *logging.Logger) *Orchestrator {
	return &Orchestrator{
		llm:    client,
		agents: store.NewAgentStore(db),
		runs:   store.NewWorkflowStore(db),
		log:    log.Sub("orchestrator"),
		now:    time.Now,
	}
}

// Agents returns the built-in team followed by every custom agent.
func (o *Orchestrator) Agents(ctx context.Context) ([]domain.Agent, error) {
	custom, err := o.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Agent, 0, len(team)+len(custom))
	for _, m := range team {
		out = append(out, m.agent.Clone())
	}
	return append(out, custom...), nil
}

// AddAgent stores a custom agent.
func (o *Orchestrator) AddAgent(ctx context.Context, a domain.Agent) error {
	if _, ok := findMember(a.ID); ok {
		return fmt.Errorf("agent %s: %w", a.ID, store.ErrDuplicate)
	}
	return o.agents.Create(ctx, a)
}

// RemoveAgent deletes a custom agent.
func (o *Orchestrator) RemoveAgent(ctx context.Context, id string) error {
	return o.agents.Delete(ctx, id)
}

func (o *Orchestrator) resolve(ctx context.Context, id string) (member, error) {
	if m, ok := findMember(id); ok {
		return m, nil
	}
	if domain.IsCustomID(id) {
		a, err := o.agents.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return member{}, fmt.Errorf("agent %s: %w", id, ErrUnknownAgent)
		}
		if err != nil {
			return member{}, err
		}
		return customMember(a), nil
	}
	return member{}, fmt.Errorf("agent %s: %w", id, ErrUnknownAgent)
}

// Execute runs one agent on input and returns its reply.
func (o *Orchestrator) Execute(ctx context.Context, agentID, input string) (string, error) {
	m, err := o.resolve(ctx, agentID)
	if err != nil {
		return "", err
	}
	return o.ask(ctx, m, input)
}

func (o *Orchestrator) ask(ctx context.Context, m member, input string) (string, error) {
	resp, err := o.llm.Complete(ctx, llm.CompletionRequest{
		System:   m.preamble,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: m.request(input)}},
	})
	if err != nil {
		return "", err
	}
	o.log.Debug().
		Str("agent", m.agent.ID).
		Str("method", m.method).
		Str("responder", o.llm.Name()).
		Dur("elapsed", resp.Duration).
		Msg("agent answered")
	return resp.Content, nil
}

// RunWorkflow executes the preparation pipeline in dependency order and
// stores the run. A failed task leaves its dependents pending; the run
// itself still completes.
func (o *Orchestrator) RunWorkflow(ctx context.Context, matchInfo, playerName string) (store.WorkflowRun, error) {
	if strings.TrimSpace(playerName) == "" {
		playerName = DefaultPlayerName
	}

	tasks := make([]domain.Task, len(preparation))
	for i, st := range preparation {
		m, _ := findMember(st.agent)
		tasks[i] = domain.Task{
			ID:        uuid.NewString(),
			AgentType: st.agent,
			Method:    m.method,
			Status:    domain.TaskPending,
		}
	}

	done := make([]bool, len(preparation))
	for progressed := true; progressed; {
		progressed = false
		for i, st := range preparation {
			if tasks[i].Status != domain.TaskPending || !allDone(done, st.deps) {
				continue
			}
			progressed = true
			tasks[i].Status = domain.TaskInProgress

			m, _ := findMember(st.agent)
			out, err := o.ask(ctx, m, st.input(matchInfo, playerName))
			if err != nil {
				o.log.Warn().Err(err).Str("agent", st.agent).Msg("workflow task failed")
				tasks[i].Status = domain.TaskFailed
				continue
			}
			tasks[i].Status = domain.TaskCompleted
			tasks[i].Result = domain.StringPtr(preview(out))
			tasks[i].FullResult = domain.StringPtr(out)
			done[i] = true
		}
	}

	run := store.WorkflowRun{
		ID:         uuid.NewString(),
		Name:       WorkflowName,
		MatchInfo:  matchInfo,
		PlayerName: playerName,
		Status:     string(domain.TaskCompleted),
		Tasks:      tasks,
		TaskCount:  len(tasks),
		CreatedAt:  o.now(),
	}
	if err := o.runs.Save(ctx, run); err != nil {
		return store.WorkflowRun{}, err
	}
	o.log.Info().Str("id", run.ID).Int("tasks", len(tasks)).Msg("workflow completed")
	return run, nil
}

// Workflows lists recorded runs, newest first.
func (o *Orchestrator) Workflows(ctx context.Context) ([]store.WorkflowRun, error) {
	return o.runs.List(ctx)
}

func allDone(done []bool, deps []int) bool {
	for _, d := range deps {
		if !done[d] {
			return false
		}
	}
	return true
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= PreviewLimit {
		return s
	}
	return string(r[:PreviewLimit])
}
