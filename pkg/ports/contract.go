package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCheckpointStoreContract verifies that a CheckpointStore implementation
// adheres to the interface contract.
func RunCheckpointStoreContract(t *testing.T, store CheckpointStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		cp := &domain.Checkpoint{
			Episode: 2,
			TrainingHistory: []domain.EpisodeRecord{
				{Episode: 1, AvgReward: 0.75, TotalReward: 3.0, NumTestCases: 4},
				{Episode: 2, AvgReward: 0.8, TotalReward: 3.2, NumTestCases: 4},
			},
			AgentConfig: domain.AgentConfig{Model: "gpt-4o-mini", Temperature: 0.7},
		}

		err := store.Save(ctx, runID, cp)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, cp.Episode, loaded.Episode)
		assert.Equal(t, cp.TrainingHistory, loaded.TrainingHistory)
		assert.Equal(t, cp.AgentConfig, loaded.AgentConfig)
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := &domain.Checkpoint{Episode: 5}
		require.NoError(t, store.Save(ctx, runID, updated))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 5, loaded.Episode)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, id1, &domain.Checkpoint{Episode: 1}))
		require.NoError(t, store.Save(ctx, id2, &domain.Checkpoint{Episode: 1}))

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
