package config

import "fmt"

// DefaultServiceURL is where the orchestration service listens out of the box.
const DefaultServiceURL = "http://localhost:8000"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL: DefaultServiceURL,
		},
		Notifications: NotificationsConfig{
			TimeoutSeconds: 5,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
		Server: ServerConfig{
			Port:      8000,
			Bind:      "loopback",
			Responder: "scripted",
			Ollama: OllamaConfig{
				BaseURL: "http://localhost:11434",
				Model:   "llama3.2",
			},
		},
	}
}
