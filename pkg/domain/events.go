package domain

import "context"

// RoundEvent describes one request/response exchange with the backend within
// a turn.
type RoundEvent struct {
	ConversationID string
	Model          string
	Round          int
	ToolsOffered   bool
	Err            error
}

// ToolEvent describes the execution of a single tool call.
type ToolEvent struct {
	ConversationID string
	ToolName       string
	CallID         string
	IsError        bool
	DurationSecs   float64
}

// EpisodeEvent describes the completion of one training episode.
type EpisodeEvent struct {
	AgentID   string
	Episode   int
	AvgReward float64
}

// LifecycleHooks receive notifications as the engine and trainer progress.
// All fields are optional; nil hooks are skipped. Hooks run synchronously on
// the calling goroutine and must be fast.
type LifecycleHooks struct {
	OnRoundStart func(ctx context.Context, e *RoundEvent)
	OnRoundEnd   func(ctx context.Context, e *RoundEvent)
	OnToolCall   func(ctx context.Context, e *ToolEvent)
	OnToolReturn func(ctx context.Context, e *ToolEvent)
	OnEpisodeEnd func(ctx context.Context, e *EpisodeEvent)
}
