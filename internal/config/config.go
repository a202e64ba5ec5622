// Package config loads runtime settings from a YAML file with environment
// overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the full runtime configuration.
type Settings struct {
	Agent  AgentSettings  `yaml:"agent"`
	Server ServerSettings `yaml:"server"`
	Redis  RedisSettings  `yaml:"redis"`
	Logs   LogSettings    `yaml:"logs"`
}

// AgentSettings configures the model backend and conversation engine.
type AgentSettings struct {
	Model         string  `yaml:"model"`
	Temperature   float64 `yaml:"temperature"`
	BaseURL       string  `yaml:"base_url"`
	APIKeyEnv     string  `yaml:"api_key_env"`
	MaxIterations int     `yaml:"max_iterations"`
	Stateful      bool    `yaml:"stateful"`
	CheckpointDir string  `yaml:"checkpoint_dir"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// RedisSettings configures optional Redis-backed checkpoint storage.
type RedisSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when no file or overrides are present.
func Default() Settings {
	return Settings{
		Agent: AgentSettings{
			Model:         "gpt-4o-mini",
			Temperature:   0.7,
			APIKeyEnv:     "OPENAI_API_KEY",
			MaxIterations: 6,
			CheckpointDir: ".arbor/checkpoints",
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
		Redis: RedisSettings{
			Address: "localhost:6379",
		},
		Logs: LogSettings{
			Level: "info",
		},
	}
}

// Load reads settings from a YAML file, falling back to defaults when the
// path is empty or the file does not exist, then applies environment
// overrides.
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return settings, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&settings)
	return settings, nil
}

// APIKey resolves the backend API key from the configured environment
// variable.
func (s Settings) APIKey() string {
	if s.Agent.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.Agent.APIKeyEnv)
}

func applyEnv(s *Settings) {
	if v := os.Getenv("ARBOR_MODEL"); v != "" {
		s.Agent.Model = v
	}
	if v := os.Getenv("ARBOR_BASE_URL"); v != "" {
		s.Agent.BaseURL = v
	}
	if v := os.Getenv("ARBOR_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Agent.Temperature = f
		}
	}
	if v := os.Getenv("ARBOR_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Agent.MaxIterations = n
		}
	}
	if v := os.Getenv("ARBOR_CHECKPOINT_DIR"); v != "" {
		s.Agent.CheckpointDir = v
	}
	if v := os.Getenv("ARBOR_SERVER_ADDR"); v != "" {
		s.Server.Addr = v
	}
	if v := os.Getenv("ARBOR_REDIS_ADDRESS"); v != "" {
		s.Redis.Address = v
		s.Redis.Enabled = true
	}
	if v := os.Getenv("ARBOR_LOG_LEVEL"); v != "" {
		s.Logs.Level = v
	}
}
