package domain

import "context"

// ToolFunc is the signature for a tool implementation.
// It receives a context and named arguments, and returns a result that is
// coerced to text before being folded back into the conversation.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool describes a callable capability offered to the model.
// The parameter schema is a JSON-schema-like object; it is presentational
// only and never enforced before invocation.
type Tool struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Handler     ToolFunc       `json:"-" yaml:"-"`
}

// ToolCall represents a request from the model to execute a named local tool.
// RawArguments holds the arguments exactly as the backend sent them (usually
// a JSON-encoded string); Args holds the parsed form.
type ToolCall struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	RawArguments string         `json:"arguments,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of executing a ToolCall. The ID must match the
// originating call so the backend can correlate invocation and result.
type ToolResult struct {
	ID      string `json:"id"`
	Output  string `json:"output"`
	IsError bool   `json:"is_error,omitempty"`
}
