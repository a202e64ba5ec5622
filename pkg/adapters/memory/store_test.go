package memory

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointStore_Contract(t *testing.T) {
	ports.RunCheckpointStoreContract(t, NewCheckpointStore())
}

func TestCheckpointStoreRoundTrip(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	cp := &domain.Checkpoint{
		Episode: 2,
		TrainingHistory: []domain.EpisodeRecord{
			{Episode: 1, AvgReward: 0.8, TotalReward: 3.2, NumTestCases: 4},
			{Episode: 2, AvgReward: 0.9, TotalReward: 3.6, NumTestCases: 4},
		},
		AgentConfig: domain.AgentConfig{Model: "gpt-4o-mini", Temperature: 0.7},
	}
	require.NoError(t, store.Save(ctx, "run-1", cp))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, cp, loaded)

	// Mutating the original after save must not affect the stored copy.
	cp.TrainingHistory[0].AvgReward = 0.0
	reloaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0.8, reloaded.TrainingHistory[0].AvgReward)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}

func TestCheckpointStoreNotFound(t *testing.T) {
	store := NewCheckpointStore()

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
}

func TestConversationStoreRoundTrip(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	items := []domain.TurnItem{
		domain.UserTurn("What is 15 * 23?"),
		domain.ToolCallTurn(domain.ToolCall{ID: "call_1", Name: "calculate"}),
		domain.ToolResultTurn("call_1", "345"),
		domain.AssistantTurn("The answer is 345."),
	}
	require.NoError(t, store.Save(ctx, "conv-1", items))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)

	// Pointer payloads are isolated from the caller's slice.
	items[1].Call.Name = "mutated"
	reloaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "calculate", reloaded[1].Call.Name)
}

func TestConversationStoreDelete(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "conv-1", []domain.TurnItem{domain.UserTurn("hi")}))
	require.NoError(t, store.Delete(ctx, "conv-1"))

	_, err := store.Load(ctx, "conv-1")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}
