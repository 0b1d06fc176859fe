package config

// Config is the root configuration for Dugout.
type Config struct {
	Service       ServiceConfig       `yaml:"service,omitempty" toml:"service"`
	Catalog       CatalogConfig       `yaml:"catalog,omitempty" toml:"catalog"`
	Notifications NotificationsConfig `yaml:"notifications,omitempty" toml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging,omitempty" toml:"logging"`
	Hooks         HooksConfig         `yaml:"hooks,omitempty" toml:"hooks"`
	Server        ServerConfig        `yaml:"server,omitempty" toml:"server"`
}

// ServiceConfig points the client at the orchestration service.
type ServiceConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty" toml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" toml:"timeoutSeconds"` // 0 = no client-side timeout
}

// CatalogConfig controls how custom agents are reconciled with the service.
type CatalogConfig struct {
	// SyncCustomAgents mirrors newly added custom agents to the service.
	SyncCustomAgents *bool `yaml:"syncCustomAgents,omitempty" toml:"syncCustomAgents"`
	// KeepOnDeleteFailure leaves a custom agent in place when the remote delete fails.
	KeepOnDeleteFailure bool `yaml:"keepOnDeleteFailure,omitempty" toml:"keepOnDeleteFailure"`
}

// SyncEnabled reports whether custom agents are mirrored remotely (default true).
func (c CatalogConfig) SyncEnabled() bool {
	return c.SyncCustomAgents == nil || *c.SyncCustomAgents
}

// NotificationsConfig controls the toast queue.
type NotificationsConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty" toml:"timeoutSeconds"` // 0 = dismiss manually
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty" toml:"level"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty" toml:"file"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty" toml:"consoleStyle"` // "pretty" | "json"
}

// HooksConfig binds lifecycle events to shell commands.
type HooksConfig struct {
	CatalogLoaded    []HookEntry `yaml:"catalogLoaded,omitempty" toml:"catalogLoaded"`
	AgentAdded       []HookEntry `yaml:"agentAdded,omitempty" toml:"agentAdded"`
	AgentRemoved     []HookEntry `yaml:"agentRemoved,omitempty" toml:"agentRemoved"`
	AgentExecuted    []HookEntry `yaml:"agentExecuted,omitempty" toml:"agentExecuted"`
	WorkflowExecuted []HookEntry `yaml:"workflowExecuted,omitempty" toml:"workflowExecuted"`
	Notification     []HookEntry `yaml:"notification,omitempty" toml:"notification"`
	ServerStart      []HookEntry `yaml:"serverStart,omitempty" toml:"serverStart"`
	ServerStop       []HookEntry `yaml:"serverStop,omitempty" toml:"serverStop"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command" toml:"command"`
	Timeout int    `yaml:"timeout,omitempty" toml:"timeout"` // milliseconds
}

// ServerConfig configures the local stand-in service started by `dugout serve`.
type ServerConfig struct {
	Port           int          `yaml:"port,omitempty" toml:"port"`
	Bind           string       `yaml:"bind,omitempty" toml:"bind"` // "loopback" | "lan"
	AllowedOrigins []string     `yaml:"allowedOrigins,omitempty" toml:"allowedOrigins"`
	Database       string       `yaml:"database,omitempty" toml:"database"`   // path, or ":memory:"
	Responder      string       `yaml:"responder,omitempty" toml:"responder"` // "scripted" | "ollama"
	Fallback       []string     `yaml:"fallback,omitempty" toml:"fallback"`   // responders tried in order when the primary fails
	Ollama         OllamaConfig `yaml:"ollama,omitempty" toml:"ollama"`
}

// OllamaConfig points the stand-in service at an Ollama instance.
type OllamaConfig struct {
	BaseURL string `yaml:"baseUrl,omitempty" toml:"baseUrl"`
	Model   string `yaml:"model,omitempty" toml:"model"`
}
