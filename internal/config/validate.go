package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Service validation
	if cfg.Service.BaseURL != "" {
		u, err := url.Parse(cfg.Service.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "service.baseUrl",
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Service.BaseURL),
			})
		}
	}
	if cfg.Service.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "service.timeoutSeconds",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Service.TimeoutSeconds),
		})
	}

	if cfg.Notifications.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "notifications.timeoutSeconds",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Notifications.TimeoutSeconds),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Hooks validation
	hookLists := map[string][]HookEntry{
		"hooks.catalogLoaded":    cfg.Hooks.CatalogLoaded,
		"hooks.agentAdded":       cfg.Hooks.AgentAdded,
		"hooks.agentRemoved":     cfg.Hooks.AgentRemoved,
		"hooks.agentExecuted":    cfg.Hooks.AgentExecuted,
		"hooks.workflowExecuted": cfg.Hooks.WorkflowExecuted,
		"hooks.notification":     cfg.Hooks.Notification,
		"hooks.serverStart":      cfg.Hooks.ServerStart,
		"hooks.serverStop":       cfg.Hooks.ServerStop,
	}
	keys := make([]string, 0, len(hookLists))
	for k := range hookLists {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		for i, h := range hookLists[key] {
			if h.Command == "" {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].command", key, i),
					Message: "command is required",
				})
			}
			if h.Timeout < 0 {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].timeout", key, i),
					Message: fmt.Sprintf("must be >= 0, got %d", h.Timeout),
				})
			}
		}
	}

	// Server validation
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"loopback", "lan"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	validResponders := []string{"scripted", "ollama"}
	if cfg.Server.Responder != "" && !slices.Contains(validResponders, cfg.Server.Responder) {
		issues = append(issues, ValidationIssue{
			Path:    "server.responder",
			Message: fmt.Sprintf("must be one of %v, got %q", validResponders, cfg.Server.Responder),
		})
	}
	for i, name := range cfg.Server.Fallback {
		if !slices.Contains(validResponders, name) {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("server.fallback[%d]", i),
				Message: fmt.Sprintf("must be one of %v, got %q", validResponders, name),
			})
		}
	}
	if (cfg.Server.Responder == "ollama" || slices.Contains(cfg.Server.Fallback, "ollama")) && cfg.Server.Ollama.Model == "" {
		issues = append(issues, ValidationIssue{
			Path:    "server.ollama.model",
			Message: "model is required when responder is ollama",
		})
	}

	return issues
}
