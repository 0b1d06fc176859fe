package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/dugout/internal/config"
)

// DefaultCommandTimeout bounds a shell hook that does not set its own timeout.
const DefaultCommandTimeout = 5 * time.Second

// CommandHandler runs command through `sh -c` with the JSON payload on stdin.
func CommandHandler(command string, timeout time.Duration) Handler {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return func(ctx context.Context, p Payload) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdin = bytes.NewReader(input)
		cmd.Env = append(cmd.Environ(), "DUGOUT_EVENT="+p.Event)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		cmd.WaitDelay = time.Second

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("hook %q: %w: %s", command, err, msg)
			}
			return fmt.Errorf("hook %q: %w", command, err)
		}
		return nil
	}
}

// RegisterCommands binds every configured shell hook to its event and
// returns how many were registered.
func RegisterCommands(m *Manager, cfg config.HooksConfig) int {
	bindings := []struct {
		event   string
		entries []config.HookEntry
	}{
		{EventCatalogLoaded, cfg.CatalogLoaded},
		{EventAgentAdded, cfg.AgentAdded},
		{EventAgentRemoved, cfg.AgentRemoved},
		{EventAgentExecuted, cfg.AgentExecuted},
		{EventWorkflowExecuted, cfg.WorkflowExecuted},
		{EventNotification, cfg.Notification},
		{EventServerStart, cfg.ServerStart},
		{EventServerStop, cfg.ServerStop},
	}

	n := 0
	for _, b := range bindings {
		for i, entry := range b.entries {
			if entry.Command == "" {
				continue
			}
			name := fmt.Sprintf("config:%s[%d]", b.event, i)
			m.On(b.event, name, CommandHandler(entry.Command, time.Duration(entry.Timeout)*time.Millisecond))
			n++
		}
	}
	return n
}
