package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// ChatRequest is one round-trip request to the model backend.
//
// Items carries the conversation input. In stateless mode it is the full
// accumulated context; in backend-stateful mode it holds only the items
// produced since PreviousResponseID.
type ChatRequest struct {
	Model string
	Items []domain.TurnItem
	// Tools offered for this round. Empty means the backend must answer in
	// natural language only.
	Tools []domain.Tool
	// Temperature is the sampling temperature. Adapters may omit it from the
	// wire request when it equals 1.0, since some models reject overrides.
	Temperature float64
	// PreviousResponseID is the continuation token from the prior round, for
	// backends that retain context server-side. Empty in stateless mode.
	PreviousResponseID string
}

// ChatResponse is the normalized backend reply. Adapters convert every wire
// shape into this form; nothing downstream probes alternate field names.
type ChatResponse struct {
	// ID is the continuation token for backend-stateful conversations.
	// Empty when the backend does not support retention.
	ID string
	// OutputText is the backend's direct final text, when provided.
	OutputText string
	// Items are the structured output items in order: assistant text and
	// tool invocations.
	Items []domain.TurnItem
}

// ToolCalls returns the tool invocations contained in the response, in order.
func (r *ChatResponse) ToolCalls() []domain.ToolCall {
	var calls []domain.ToolCall
	for _, item := range r.Items {
		if item.Kind == domain.TurnToolCall && item.Call != nil {
			calls = append(calls, *item.Call)
		}
	}
	return calls
}

// ModelProvider is the black-box language-model backend. Implementations own
// transport concerns (timeouts, retries are NOT performed by the engine).
//
// Errors: transport failures must wrap domain.ErrBackendUnavailable;
// non-2xx backend replies must surface as *domain.BackendError.
type ModelProvider interface {
	// Name identifies the provider for logging and metrics.
	Name() string
	// Chat performs one request/response exchange.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
