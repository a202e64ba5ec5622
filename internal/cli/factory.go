// Package cli assembles the application pieces the commands need from
// configuration: logger, provider, registry, agents and stores.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/adapters/file"
	"github.com/aretw0/arbor/internal/adapters/redis"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/openai"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/aretw0/arbor/pkg/tools"
)

// NewLogger builds the application logger from settings.
func NewLogger(settings config.Settings) *slog.Logger {
	return logging.New(logging.ParseLevel(settings.Logs.Level))
}

// NewProvider builds the model backend from settings.
func NewProvider(settings config.Settings, logger *slog.Logger) (ports.ModelProvider, error) {
	apiKey := settings.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key found: set %s", settings.Agent.APIKeyEnv)
	}

	opts := []openai.Option{openai.WithLogger(logger)}
	if settings.Agent.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(settings.Agent.BaseURL))
	}
	return openai.New(apiKey, opts...), nil
}

// NewRegistry builds the shared tool registry. All agents created by this
// process share it read-only.
func NewRegistry() *registry.Registry {
	return tools.DefaultRegistry()
}

// NewAgent builds one conversation agent from settings.
func NewAgent(settings config.Settings, provider ports.ModelProvider, reg *registry.Registry, logger *slog.Logger, hooks domain.LifecycleHooks, conversationID string) (*arbor.Agent, error) {
	opts := []arbor.Option{
		arbor.WithRegistry(reg),
		arbor.WithLogger(logger),
		arbor.WithLifecycleHooks(hooks),
		arbor.WithModel(settings.Agent.Model),
		arbor.WithTemperature(settings.Agent.Temperature),
		arbor.WithMaxIterations(settings.Agent.MaxIterations),
		arbor.WithStatefulContext(settings.Agent.Stateful),
	}
	if conversationID != "" {
		opts = append(opts, arbor.WithConversationID(conversationID))
	}
	return arbor.New(provider, opts...)
}

// NewSessionManager builds a manager whose factory creates one agent per
// conversation, all sharing the provider and registry.
func NewSessionManager(settings config.Settings, provider ports.ModelProvider, reg *registry.Registry, logger *slog.Logger, hooks domain.LifecycleHooks) *session.Manager {
	return session.NewManager(func(conversationID string) (session.Agent, error) {
		return NewAgent(settings, provider, reg, logger, hooks, conversationID)
	}, session.WithLogger(logger))
}

// NewCheckpointStore builds the checkpoint store: Redis when enabled,
// otherwise JSON files under the configured directory.
func NewCheckpointStore(settings config.Settings) ports.CheckpointStore {
	if settings.Redis.Enabled {
		return redis.New(settings.Redis.Address, settings.Redis.Password, settings.Redis.DB)
	}
	return file.New(settings.Agent.CheckpointDir)
}
