package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// CheckpointStore persists training checkpoints by run ID.
type CheckpointStore interface {
	// Save persists the checkpoint for a given run ID, replacing any
	// previous snapshot.
	Save(ctx context.Context, runID string, cp *domain.Checkpoint) error

	// Load retrieves the checkpoint for a given run ID.
	// Returns domain.ErrCheckpointNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Checkpoint, error)

	// List returns the known run IDs.
	List(ctx context.Context) ([]string, error)
}

// ConversationStore persists conversation transcripts by conversation ID.
// The engine itself never touches it; outer surfaces (HTTP, CLI) use it to
// retain transcripts across requests.
type ConversationStore interface {
	// Save persists the transcript for a conversation, replacing any
	// previous version.
	Save(ctx context.Context, conversationID string, items []domain.TurnItem) error

	// Load retrieves the transcript for a conversation.
	// Returns domain.ErrConversationNotFound if it does not exist.
	Load(ctx context.Context, conversationID string) ([]domain.TurnItem, error)

	// Delete removes the transcript for a conversation.
	Delete(ctx context.Context, conversationID string) error
}
