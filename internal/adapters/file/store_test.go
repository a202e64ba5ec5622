package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunCheckpointStoreContract(t, New(t.TempDir()))
}

func sampleCheckpoint() *domain.Checkpoint {
	return &domain.Checkpoint{
		Episode: 3,
		TrainingHistory: []domain.EpisodeRecord{
			{Episode: 1, AvgReward: 0.7, TotalReward: 2.8, NumTestCases: 4},
			{Episode: 2, AvgReward: 0.8, TotalReward: 3.2, NumTestCases: 4},
			{Episode: 3, AvgReward: 0.85, TotalReward: 3.4, NumTestCases: 4},
		},
		AgentConfig: domain.AgentConfig{Model: "gpt-4o-mini", Temperature: 0.7},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleCheckpoint()))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, sampleCheckpoint(), loaded)
}

func TestSaveOverwrites(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleCheckpoint()))
	updated := sampleCheckpoint()
	updated.Episode = 4
	require.NoError(t, store.Save(ctx, "run-1", updated))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Episode)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	require.NoError(t, store.Save(context.Background(), "run-1", sampleCheckpoint()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run-1.json", entries[0].Name())
}

func TestLoadMissing(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCheckpointNotFound)
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, store.Save(ctx, "run-1", sampleCheckpoint()))
	require.NoError(t, store.Save(ctx, "run-2", sampleCheckpoint()))

	runs, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run-1", "run-2"}, runs)
}

func TestListMissingDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope"))

	runs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestEmptyRunID(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", sampleCheckpoint()))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}
