package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandReferences processes environment variable references in fields
// that commonly differ between machines.
func expandReferences(cfg *Config) {
	cfg.Service.BaseURL = expandEnvVars(cfg.Service.BaseURL)
	cfg.Logging.File = expandEnvVars(cfg.Logging.File)
	cfg.Server.Database = expandEnvVars(cfg.Server.Database)
	cfg.Server.Ollama.BaseURL = expandEnvVars(cfg.Server.Ollama.BaseURL)
	for i, origin := range cfg.Server.AllowedOrigins {
		cfg.Server.AllowedOrigins[i] = expandEnvVars(origin)
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, data []byte, v any) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), v)
		return err
	}
	return yaml.Unmarshal(data, v)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only. Paths ending in
// .toml are decoded as TOML, everything else as YAML.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := decode(path, data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandReferences(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	raw := map[string]any{}
	if err := decode(path, data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to the config file in the format
// implied by its extension.
func SaveRaw(path string, raw map[string]any) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(raw)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = def.Service.BaseURL
	}
	cfg.Service.BaseURL = strings.TrimRight(cfg.Service.BaseURL, "/")
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = def.Logging.ConsoleStyle
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = def.Server.Bind
	}
	if cfg.Server.Responder == "" {
		cfg.Server.Responder = def.Server.Responder
	}
	if cfg.Server.Ollama.BaseURL == "" {
		cfg.Server.Ollama.BaseURL = def.Server.Ollama.BaseURL
	}
	if cfg.Server.Ollama.Model == "" {
		cfg.Server.Ollama.Model = def.Server.Ollama.Model
	}
}

// applyEnvOverrides reads DUGOUT_* environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DUGOUT_SERVICE_URL"); v != "" {
		cfg.Service.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DUGOUT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("DUGOUT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
