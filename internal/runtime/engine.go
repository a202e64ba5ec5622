// Package runtime implements the tool-calling conversation engine: the loop
// that drives rounds against the model backend, executes requested tools and
// folds their results back into context until a final answer emerges or the
// iteration budget runs out.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
)

// FallbackResponse is returned when a turn produces no usable text at all.
const FallbackResponse = "No response from model."

// DefaultMaxIterations bounds the number of backend rounds per turn.
const DefaultMaxIterations = 6

// Engine drives multi-turn conversations with tool calling.
//
// An Engine serves exactly one conversation and is not safe for concurrent
// use; callers sharing one across goroutines must serialize access (see
// pkg/session).
type Engine struct {
	provider ports.ModelProvider
	registry *registry.Registry
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	model         string
	temperature   float64
	maxIterations int
	stateful      bool

	items         []domain.TurnItem
	unsent        int // index of the first item the backend has not seen (stateful mode)
	continuation  string
	lastToolCalls []domain.ToolCall
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers lifecycle hooks for observability.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithModel sets the model identifier sent to the backend.
func WithModel(model string) EngineOption {
	return func(e *Engine) {
		e.model = model
	}
}

// WithTemperature sets the sampling temperature (default 1.0).
func WithTemperature(temperature float64) EngineOption {
	return func(e *Engine) {
		e.temperature = temperature
	}
}

// WithMaxIterations bounds the backend rounds per turn (default 6).
func WithMaxIterations(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithStatefulContext switches the engine to backend-stateful mode: it sends
// only unseen items plus the continuation token of the previous round, instead
// of resending the full accumulated context.
func WithStatefulContext(stateful bool) EngineOption {
	return func(e *Engine) {
		e.stateful = stateful
	}
}

// NewEngine creates an engine bound to a provider and a read-only registry.
func NewEngine(provider ports.ModelProvider, reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		provider:      provider,
		registry:      reg,
		logger:        logging.NewNop(),
		temperature:   1.0,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the configured model identifier.
func (e *Engine) Model() string { return e.model }

// Temperature returns the configured sampling temperature.
func (e *Engine) Temperature() float64 { return e.temperature }

// Reset discards the conversation context, the continuation token and the
// recorded tool calls.
func (e *Engine) Reset() {
	e.items = nil
	e.unsent = 0
	e.continuation = ""
	e.lastToolCalls = nil
}

// History returns a copy of the accumulated turn items.
func (e *Engine) History() []domain.TurnItem {
	out := make([]domain.TurnItem, len(e.items))
	copy(out, e.items)
	return out
}

// LastToolCalls returns the tool invocations recorded during the most recent
// Chat turn, in execution order.
func (e *Engine) LastToolCalls() []domain.ToolCall {
	out := make([]domain.ToolCall, len(e.lastToolCalls))
	copy(out, e.lastToolCalls)
	return out
}

// Chat runs one turn: it sends the user message, executes any tools the
// backend requests and returns the final answer.
//
// Tool-level failures (unknown tool, bad arguments, handler errors) never
// fail the turn; they are folded back as textual results. Only backend
// errors are returned, wrapped so callers can distinguish
// domain.ErrBackendUnavailable from *domain.BackendError.
//
// If the iteration budget is exhausted before the backend stops requesting
// tools, Chat returns the last non-empty text seen, or FallbackResponse.
// That outcome is degraded but not an error.
func (e *Engine) Chat(ctx context.Context, userMessage string) (string, error) {
	e.items = append(e.items, domain.UserTurn(userMessage))
	e.lastToolCalls = nil

	// Tools are offered only until the first tool-result batch has been
	// folded back; later rounds omit them to prevent re-selection loops.
	offerTools := true
	lastText := ""

	for round := 1; round <= e.maxIterations; round++ {
		resp, err := e.callBackend(ctx, round, offerTools)
		if err != nil {
			return "", fmt.Errorf("backend round %d: %w", round, err)
		}

		if e.stateful && resp.ID != "" {
			e.continuation = resp.ID
		}
		e.items = append(e.items, resp.Items...)
		if resp.OutputText != "" && !hasAssistantItem(resp.Items) {
			// Keep the transcript complete when the backend only sets the
			// direct text field.
			e.items = append(e.items, domain.AssistantTurn(resp.OutputText))
		}
		e.unsent = len(e.items)

		if text := finalText(resp); text != "" {
			lastText = text
		}

		calls := resp.ToolCalls()
		if len(calls) == 0 {
			if lastText != "" {
				return lastText, nil
			}
			return FallbackResponse, nil
		}

		e.lastToolCalls = append(e.lastToolCalls, calls...)
		for _, call := range calls {
			output := e.runTool(ctx, call)
			e.items = append(e.items, domain.ToolResultTurn(call.ID, output))
		}
		offerTools = false
	}

	e.logger.Warn("iteration budget exhausted", "max_iterations", e.maxIterations)
	if lastText != "" {
		return lastText, nil
	}
	return FallbackResponse, nil
}

func (e *Engine) callBackend(ctx context.Context, round int, offerTools bool) (*ports.ChatResponse, error) {
	req := ports.ChatRequest{
		Model:       e.model,
		Temperature: e.temperature,
	}
	if offerTools {
		req.Tools = e.registry.Schemas()
	}
	if e.stateful && e.continuation != "" {
		req.PreviousResponseID = e.continuation
		req.Items = e.items[e.unsent:]
	} else {
		req.Items = e.items
	}

	event := domain.RoundEvent{Model: e.model, Round: round, ToolsOffered: offerTools}
	if e.hooks.OnRoundStart != nil {
		e.hooks.OnRoundStart(ctx, &event)
	}
	resp, err := e.provider.Chat(ctx, req)
	event.Err = err
	if e.hooks.OnRoundEnd != nil {
		e.hooks.OnRoundEnd(ctx, &event)
	}
	if err != nil {
		return nil, err
	}
	e.logger.Debug("backend round complete",
		"round", round,
		"items", len(resp.Items),
		"tools_offered", offerTools,
	)
	return resp, nil
}

func hasAssistantItem(items []domain.TurnItem) bool {
	for _, item := range items {
		if item.Kind == domain.TurnAssistant {
			return true
		}
	}
	return false
}

// finalText extracts the best available answer from a response: the explicit
// output text if present, otherwise the first assistant item with non-empty
// text.
func finalText(resp *ports.ChatResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	for _, item := range resp.Items {
		if item.Kind == domain.TurnAssistant && item.Text != "" {
			return item.Text
		}
	}
	return ""
}

// runTool resolves arguments, executes the named tool and coerces the result
// to text. Every failure mode becomes a result string, never an error.
func (e *Engine) runTool(ctx context.Context, call domain.ToolCall) string {
	args := resolveArgs(call)

	tool, ok := e.registry.Get(call.Name)
	if !ok {
		e.logger.Warn("tool not found", "tool", call.Name)
		return fmt.Sprintf("Error: Tool '%s' not found", call.Name)
	}

	event := domain.ToolEvent{ToolName: call.Name, CallID: call.ID}
	if e.hooks.OnToolCall != nil {
		e.hooks.OnToolCall(ctx, &event)
	}

	start := time.Now()
	result, err := safeInvoke(ctx, tool, args)
	event.DurationSecs = time.Since(start).Seconds()
	event.IsError = err != nil
	if e.hooks.OnToolReturn != nil {
		e.hooks.OnToolReturn(ctx, &event)
	}

	if err != nil {
		e.logger.Warn("tool execution failed", "tool", call.Name, "err", err)
		return fmt.Sprintf("Error executing tool '%s': %s", call.Name, err)
	}
	return fmt.Sprintf("%v", result)
}

// resolveArgs normalizes raw arguments to a map. Malformed argument strings
// degrade to an empty map rather than failing the turn.
func resolveArgs(call domain.ToolCall) map[string]any {
	if call.Args != nil {
		return call.Args
	}
	args := map[string]any{}
	if call.RawArguments != "" {
		if err := json.Unmarshal([]byte(call.RawArguments), &args); err != nil {
			return map[string]any{}
		}
	}
	return args
}

// safeInvoke runs a handler and converts panics into errors so misbehaving
// tools cannot abort the turn.
func safeInvoke(ctx context.Context, tool domain.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Handler(ctx, args)
}
