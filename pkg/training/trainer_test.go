package training

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoAgent answers every case the same way, well enough to earn a stable
// nonzero reward.
type echoAgent struct {
	response string
	calls    []domain.ToolCall
}

func (a *echoAgent) Chat(context.Context, string) (string, error) { return a.response, nil }
func (a *echoAgent) Reset(bool)                                   {}
func (a *echoAgent) LastToolCalls() []domain.ToolCall             { return a.calls }
func (a *echoAgent) Config() domain.AgentConfig {
	return domain.AgentConfig{Model: "echo", Temperature: 0.7}
}

// memStore is a minimal in-memory checkpoint store for trainer tests.
type memStore struct {
	saved map[string]*domain.Checkpoint
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]*domain.Checkpoint)}
}

func (s *memStore) Save(_ context.Context, runID string, cp *domain.Checkpoint) error {
	s.saved[runID] = cp
	return nil
}

func (s *memStore) Load(_ context.Context, runID string) (*domain.Checkpoint, error) {
	cp, ok := s.saved[runID]
	if !ok {
		return nil, domain.ErrCheckpointNotFound
	}
	return cp, nil
}

func (s *memStore) List(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.saved))
	for id := range s.saved {
		ids = append(ids, id)
	}
	return ids, nil
}

func soloCase() []domain.TestCase {
	return []domain.TestCase{{
		UserInput:      "What is 15 * 23?",
		ExpectedOutput: "345",
		ExpectedTools:  []string{"calculate"},
		TaskType:       domain.MatchExact,
	}}
}

func TestTrainAccumulatesHistory(t *testing.T) {
	trainer := New(&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}})

	records, err := trainer.Train(context.Background(), soloCase(), 3)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Episode)
	assert.Equal(t, 3, records[2].Episode)
	assert.Equal(t, 3, trainer.Episode())
	assert.Len(t, trainer.History(), 3)

	// A deterministic agent earns the same reward every episode.
	assert.Equal(t, records[0].AvgReward, records[2].AvgReward)
	assert.InDelta(t, records[0].AvgReward*1, records[0].TotalReward, 1e-9)
}

func TestTrainContinuesAcrossCalls(t *testing.T) {
	trainer := New(&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}})

	_, err := trainer.Train(context.Background(), soloCase(), 2)
	require.NoError(t, err)
	records, err := trainer.Train(context.Background(), soloCase(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, records[0].Episode)
	assert.Equal(t, 3, trainer.Episode())
}

func TestTrainEmptyCases(t *testing.T) {
	trainer := New(&echoAgent{response: "345"})

	_, err := trainer.Train(context.Background(), nil, 1)
	assert.ErrorIs(t, err, domain.ErrNoTestCases)
	assert.Equal(t, 0, trainer.Episode())
}

func TestTrainHonorsCancellation(t *testing.T) {
	trainer := New(&echoAgent{response: "345"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := trainer.Train(ctx, soloCase(), 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

func TestTrainFiresEpisodeHook(t *testing.T) {
	var episodes []int
	trainer := New(
		&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}},
		WithHooks(domain.LifecycleHooks{
			OnEpisodeEnd: func(_ context.Context, e *domain.EpisodeEvent) {
				episodes = append(episodes, e.Episode)
			},
		}),
	)

	_, err := trainer.Train(context.Background(), soloCase(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, episodes)
}

func TestCheckpointRoundTrip(t *testing.T) {
	store := newMemStore()
	trainer := New(
		&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}},
		WithCheckpointStore(store),
	)

	_, err := trainer.Train(context.Background(), soloCase(), 2)
	require.NoError(t, err)
	require.NoError(t, trainer.SaveCheckpoint(context.Background(), "run-1"))

	restored := New(
		&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}},
		WithCheckpointStore(store),
	)
	cp, err := restored.LoadCheckpoint(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, 2, cp.Episode)
	assert.Equal(t, "echo", cp.AgentConfig.Model)
	assert.Equal(t, 2, restored.Episode())
	assert.Len(t, restored.History(), 2)

	// The next episode continues the counter.
	record, err := restored.TrainStep(context.Background(), soloCase())
	require.NoError(t, err)
	assert.Equal(t, 3, record.Episode)
}

func TestLoadCheckpointMissing(t *testing.T) {
	trainer := New(&echoAgent{response: "345"}, WithCheckpointStore(newMemStore()))

	_, err := trainer.LoadCheckpoint(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
}

func TestCheckpointWithoutStore(t *testing.T) {
	trainer := New(&echoAgent{response: "345"})

	assert.Error(t, trainer.SaveCheckpoint(context.Background(), "run-1"))
	_, err := trainer.LoadCheckpoint(context.Background(), "run-1")
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	trainer := New(&echoAgent{response: "345", calls: []domain.ToolCall{{Name: "calculate"}}})

	_, err := trainer.Train(context.Background(), soloCase(), 2)
	require.NoError(t, err)
	trainer.Reset()

	assert.Equal(t, 0, trainer.Episode())
	assert.Empty(t, trainer.History())
}
