// Package hooks provides an event-driven hook system for Dugout lifecycle events.
package hooks

import (
	"context"
	"slices"
	"sync"

	"github.com/soyeahso/dugout/internal/logging"
)

// Event names for the hook system.
const (
	EventCatalogLoaded    = "catalog_loaded"
	EventAgentAdded       = "agent_added"
	EventAgentRemoved     = "agent_removed"
	EventAgentExecuted    = "agent_executed"
	EventWorkflowExecuted = "workflow_executed"
	EventNotification     = "notification"
	EventServerStart      = "server_start"
	EventServerStop       = "server_stop"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventCatalogLoaded,
	EventAgentAdded,
	EventAgentRemoved,
	EventAgentExecuted,
	EventWorkflowExecuted,
	EventNotification,
	EventServerStart,
	EventServerStop,
}

// Payload carries event data to hook handlers.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is a function that handles a hook event.
// Returning an error logs the failure but does not stop processing.
type Handler func(ctx context.Context, p Payload) error

// Emitter is the part of Manager the core components depend on. A nil
// *Manager is a valid Emitter that drops every event.
type Emitter interface {
	Emit(ctx context.Context, event string, data map[string]any)
	EmitAsync(ctx context.Context, event string, data map[string]any)
}

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	inflight sync.WaitGroup
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event.
// The name identifies the handler for logging and debugging.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Off removes all handlers with the given name from the event.
func (m *Manager) Off(event, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = slices.DeleteFunc(m.handlers[event], func(h namedHandler) bool {
		return h.name == name
	})
}

func (m *Manager) snapshot(event string) []namedHandler {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.handlers[event])
}

// Emit dispatches an event to all registered handlers synchronously.
// Handlers are called in registration order. Errors are logged but do not
// prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	handlers := m.snapshot(event)
	if len(handlers) == 0 {
		return
	}

	payload := Payload{Event: event, Data: data}
	for _, h := range handlers {
		m.run(ctx, h, payload)
	}
}

// EmitAsync dispatches an event to all registered handlers concurrently.
// Returns immediately; use Wait to block until the handlers finish.
func (m *Manager) EmitAsync(ctx context.Context, event string, data map[string]any) {
	handlers := m.snapshot(event)
	if len(handlers) == 0 {
		return
	}

	payload := Payload{Event: event, Data: data}
	m.inflight.Add(len(handlers))
	for _, h := range handlers {
		go func(h namedHandler) {
			defer m.inflight.Done()
			m.run(ctx, h, payload)
		}(h)
	}
}

func (m *Manager) run(ctx context.Context, h namedHandler, p Payload) {
	if err := h.handler(ctx, p); err != nil {
		m.log.Warn().
			Err(err).
			Str("event", p.Event).
			Str("handler", h.name).
			Msg("hook handler error")
	}
}

// Wait blocks until every handler started by EmitAsync has returned, or
// until ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	if m == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	return len(m.snapshot(event))
}

// Events returns the sorted list of events that have at least one handler.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	slices.Sort(events)
	return events
}
