// Package catalog holds the process-wide set of agents shown to the user:
// the built-in team fetched from the service plus user-defined agents
// added at runtime.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/notify"
)

var (
	// ErrNotFound is returned when an agent id is not in the catalog.
	ErrNotFound = errors.New("agent not found")
	// ErrRemovalPending is returned when a delete for the same agent is
	// already waiting on the service.
	ErrRemovalPending = errors.New("agent removal already in progress")
)

// DeleteFailedMessage is pushed when the service rejects a delete.
const DeleteFailedMessage = "Failed to delete agent. Please try again."

// Remote is the subset of the service API the catalog uses.
type Remote interface {
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	CreateCustomAgent(ctx context.Context, agent domain.Agent) (*domain.Agent, error)
	DeleteCustomAgent(ctx context.Context, id string) error
}

// Store is the agent catalog. Safe for concurrent use.
type Store struct {
	remote   Remote
	notifier notify.Notifier
	hooks    hooks.Emitter
	log      *logging.Logger

	now          func() time.Time
	syncAdds     bool
	keepOnDelete bool

	mu       sync.RWMutex
	agents   []domain.Agent
	loaded   bool
	lastID   int64
	removing map[string]bool
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for custom agent ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSync controls whether added agents are mirrored to the service.
func WithSync(enabled bool) Option {
	return func(s *Store) { s.syncAdds = enabled }
}

// WithKeepOnDeleteFailure keeps a custom agent when the remote delete fails.
func WithKeepOnDeleteFailure(keep bool) Option {
	return func(s *Store) { s.keepOnDelete = keep }
}

// WithHooks fires lifecycle events on e.
func WithHooks(e hooks.Emitter) Option {
	return func(s *Store) { s.hooks = e }
}

// New creates an empty catalog. Call Load once at startup.
func New(remote Remote, notifier notify.Notifier, log *logging.Logger, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		notifier: notifier,
		log:      log.Sub("catalog"),
		now:      time.Now,
		syncAdds: true,
		removing: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the catalog with the service's agent list. Entries that
// break the catalog invariants are skipped. On failure the catalog is
// left empty and an error notification is pushed.
func (s *Store) Load(ctx context.Context) error {
	agents, err := s.remote.ListAgents(ctx)
	if err != nil {
		s.mu.Lock()
		s.agents = nil
		s.loaded = false
		s.mu.Unlock()

		s.log.Error().Err(err).Msg("failed to load agents")
		s.notifier.Push("Failed to load agents: "+api.Detail(err), domain.NotifyError)
		return fmt.Errorf("load agents: %w", err)
	}

	seen := make(map[string]bool, len(agents))
	kept := make([]domain.Agent, 0, len(agents))
	for _, a := range agents {
		a = a.Normalize()
		if err := a.Validate(); err != nil {
			s.log.Warn().Str("id", a.ID).Str("name", a.Name).Err(err).Msg("skipping invalid agent")
			continue
		}
		if seen[a.ID] {
			s.log.Warn().Str("id", a.ID).Msg("skipping duplicate agent")
			continue
		}
		seen[a.ID] = true
		kept = append(kept, a)
	}

	s.mu.Lock()
	s.agents = kept
	s.loaded = true
	s.mu.Unlock()

	s.log.Info().Int("count", len(kept)).Int("skipped", len(agents)-len(kept)).Msg("catalog loaded")
	s.emit(ctx, hooks.EventCatalogLoaded, map[string]any{"count": len(kept)})
	return nil
}

// Add validates draft, assigns it a fresh custom id and appends it. When
// sync is enabled the agent is then created on the service; a failed
// create rolls the append back.
func (s *Store) Add(ctx context.Context, draft domain.AgentDraft) (domain.Agent, error) {
	d := draft.Normalize()
	if err := d.Validate(); err != nil {
		return domain.Agent{}, err
	}

	s.mu.Lock()
	agent := d.Agent(s.nextIDLocked())
	s.agents = append(s.agents, agent.Clone())
	s.mu.Unlock()

	if s.syncAdds {
		if _, err := s.remote.CreateCustomAgent(ctx, agent); err != nil {
			s.mu.Lock()
			s.deleteLocked(agent.ID)
			s.mu.Unlock()

			s.log.Error().Err(err).Str("id", agent.ID).Msg("failed to save agent, rolled back")
			s.notifier.Push("Failed to save agent: "+api.Detail(err), domain.NotifyError)
			return domain.Agent{}, fmt.Errorf("create agent %s: %w", agent.ID, err)
		}
	}

	s.log.Info().Str("id", agent.ID).Str("name", agent.Name).Str("type", agent.Type).Bool("synced", s.syncAdds).Msg("agent added")
	s.notifier.Push(fmt.Sprintf("Agent %q created", agent.Name), domain.NotifySuccess)
	s.emit(ctx, hooks.EventAgentAdded, agentData(agent))
	return agent, nil
}

// Remove deletes an agent. Custom agents are deleted on the service first;
// built-in agents are only removed locally.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	agent, ok := s.getLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !agent.IsCustom() {
		s.deleteLocked(id)
		s.mu.Unlock()
		s.log.Info().Str("id", id).Msg("built-in agent removed")
		s.emit(ctx, hooks.EventAgentRemoved, agentData(agent))
		return nil
	}
	if s.removing[id] {
		s.mu.Unlock()
		return ErrRemovalPending
	}
	s.removing[id] = true
	s.mu.Unlock()

	err := s.remote.DeleteCustomAgent(ctx, id)

	s.mu.Lock()
	delete(s.removing, id)
	removed := err == nil || !s.keepOnDelete
	if removed {
		s.deleteLocked(id)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Str("id", id).Bool("kept", !removed).Msg("remote delete failed")
		s.notifier.Push(DeleteFailedMessage, domain.NotifyError)
	}
	if removed {
		s.log.Info().Str("id", id).Msg("custom agent removed")
		s.emit(ctx, hooks.EventAgentRemoved, agentData(agent))
	}
	if err != nil {
		return fmt.Errorf("delete agent %s: %w", id, err)
	}
	return nil
}

// Get returns a copy of the agent with the given id.
func (s *Store) Get(id string) (domain.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.getLocked(id)
	return a.Clone(), ok
}

// List returns a copy of the catalog in display order.
func (s *Store) List() []domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Agent, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.Clone()
	}
	return out
}

// Len returns the number of agents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents)
}

// Loaded reports whether the last Load succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// nextIDLocked returns a custom id whose numeric part is strictly greater
// than any issued before and than any custom id already in the catalog.
func (s *Store) nextIDLocked() string {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	for _, a := range s.agents {
		if v, ok := customSeq(a.ID); ok && v >= n {
			n = v + 1
		}
	}
	s.lastID = n
	return domain.CustomIDPrefix + strconv.FormatInt(n, 10)
}

func customSeq(id string) (int64, bool) {
	if !domain.IsCustomID(id) {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(id, domain.CustomIDPrefix), 10, 64)
	return v, err == nil
}

func (s *Store) getLocked(id string) (domain.Agent, bool) {
	for _, a := range s.agents {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Agent{}, false
}

func (s *Store) deleteLocked(id string) {
	for i, a := range s.agents {
		if a.ID == id {
			s.agents = append(s.agents[:i:i], s.agents[i+1:]...)
			return
		}
	}
}

func (s *Store) emit(ctx context.Context, event string, data map[string]any) {
	if s.hooks != nil {
		s.hooks.EmitAsync(context.WithoutCancel(ctx), event, data)
	}
}

func agentData(a domain.Agent) map[string]any {
	return map[string]any{
		"id":     a.ID,
		"name":   a.Name,
		"type":   a.Type,
		"custom": a.IsCustom(),
	}
}
