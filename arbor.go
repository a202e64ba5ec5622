package arbor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/tools"
	"github.com/google/uuid"
)

// Version is the library version, reported by the CLI and the MCP server.
const Version = "0.3.0"

// Agent is the high-level entry point for the Arbor library. It wraps the
// internal conversation engine and gives it an identity: a conversation ID
// and a serializable configuration.
//
// An Agent serves one conversation at a time. Share an Agent across
// concurrent callers only through a session manager (pkg/session).
type Agent struct {
	engine         *runtime.Engine
	registry       *registry.Registry
	conversationID string
	logger         *slog.Logger

	model         string
	temperature   float64
	maxIterations int
	stateful      bool
	hooks         domain.LifecycleHooks
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithRegistry injects a shared tool registry. The registry must be fully
// built before the agent starts chatting; agents never mutate it.
func WithRegistry(reg *registry.Registry) Option {
	return func(a *Agent) {
		a.registry = reg
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// WithModel sets the model identifier (e.g. "gpt-4o").
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithTemperature sets the sampling temperature (default 1.0).
func WithTemperature(temperature float64) Option {
	return func(a *Agent) {
		a.temperature = temperature
	}
}

// WithMaxIterations bounds the backend rounds per chat turn (default 6).
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		a.maxIterations = n
	}
}

// WithStatefulContext relies on backend-side context retention via
// continuation tokens instead of resending the full conversation each round.
func WithStatefulContext(stateful bool) Option {
	return func(a *Agent) {
		a.stateful = stateful
	}
}

// WithConversationID pins the conversation ID instead of generating one.
func WithConversationID(id string) Option {
	return func(a *Agent) {
		a.conversationID = id
	}
}

// New initializes an Agent talking to the given model provider.
// Without WithRegistry it uses the default builtin tool set.
func New(provider ports.ModelProvider, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("model provider is required")
	}

	agent := &Agent{
		logger:        logging.NewNop(),
		temperature:   1.0,
		maxIterations: runtime.DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(agent)
	}

	if agent.registry == nil {
		agent.registry = tools.DefaultRegistry()
	}
	if agent.conversationID == "" {
		agent.conversationID = uuid.NewString()
	}

	agent.engine = runtime.NewEngine(provider, agent.registry,
		runtime.WithLogger(agent.logger),
		runtime.WithHooks(agent.hooks),
		runtime.WithModel(agent.model),
		runtime.WithTemperature(agent.temperature),
		runtime.WithMaxIterations(agent.maxIterations),
		runtime.WithStatefulContext(agent.stateful),
	)
	return agent, nil
}

// Chat runs one conversation turn and returns the final answer.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	return a.engine.Chat(ctx, userMessage)
}

// Reset discards the conversation state. With newConversation it also
// assigns a fresh conversation ID.
func (a *Agent) Reset(newConversation bool) {
	a.engine.Reset()
	if newConversation {
		a.conversationID = uuid.NewString()
	}
}

// ConversationID returns the current conversation ID.
func (a *Agent) ConversationID() string {
	return a.conversationID
}

// LastToolCalls returns the tool invocations made during the most recent
// turn, in execution order.
func (a *Agent) LastToolCalls() []domain.ToolCall {
	return a.engine.LastToolCalls()
}

// History returns a copy of the conversation transcript.
func (a *Agent) History() []domain.TurnItem {
	return a.engine.History()
}

// Registry returns the shared tool registry.
func (a *Agent) Registry() *registry.Registry {
	return a.registry
}

// Config returns the agent's serializable configuration.
func (a *Agent) Config() domain.AgentConfig {
	return domain.AgentConfig{
		Model:       a.model,
		Temperature: a.temperature,
	}
}
