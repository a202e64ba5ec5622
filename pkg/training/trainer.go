// Package training runs episodic evaluation loops over agents, records
// per-episode rewards and persists checkpoints through a pluggable store.
package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/aretw0/arbor/pkg/ports"
)

// Trainer drives an agent through repeated evaluation episodes. One episode
// is one full pass over the case batch; the reward history accumulates
// across Train calls until Reset.
type Trainer struct {
	agent   evaluation.Agent
	policy  PolicyUpdater
	store   ports.CheckpointStore
	weights domain.RewardWeights
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	episode int
	history []domain.EpisodeRecord
}

// Option configures the Trainer.
type Option func(*Trainer)

// WithPolicy sets the policy updater applied after each episode.
func WithPolicy(policy PolicyUpdater) Option {
	return func(t *Trainer) {
		t.policy = policy
	}
}

// WithCheckpointStore sets the store used by SaveCheckpoint and
// LoadCheckpoint. Without one, checkpoint operations fail.
func WithCheckpointStore(store ports.CheckpointStore) Option {
	return func(t *Trainer) {
		t.store = store
	}
}

// WithWeights overrides the reward weighting used during evaluation.
func WithWeights(weights domain.RewardWeights) Option {
	return func(t *Trainer) {
		t.weights = weights
	}
}

// WithHooks sets lifecycle hooks; OnEpisodeEnd fires after each episode.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Trainer) {
		t.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// New creates a trainer for the given agent.
func New(agent evaluation.Agent, opts ...Option) *Trainer {
	t := &Trainer{
		agent:   agent,
		policy:  IdentityPolicy{},
		weights: domain.DefaultRewardWeights(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Episode returns the number of episodes completed so far.
func (t *Trainer) Episode() int { return t.episode }

// History returns a copy of the per-episode reward history.
func (t *Trainer) History() []domain.EpisodeRecord {
	out := make([]domain.EpisodeRecord, len(t.history))
	copy(out, t.history)
	return out
}

// TrainStep runs a single episode: evaluate the whole batch, record the
// rollup and apply the policy update.
func (t *Trainer) TrainStep(ctx context.Context, cases []domain.TestCase) (domain.EpisodeRecord, error) {
	batch, err := evaluation.New(t.agent, evaluation.WithWeights(t.weights)).EvaluateBatch(ctx, cases)
	if err != nil {
		return domain.EpisodeRecord{}, fmt.Errorf("episode %d: %w", t.episode+1, err)
	}

	t.episode++
	record := domain.EpisodeRecord{
		Episode:      t.episode,
		AvgReward:    batch.Aggregate.Reward,
		TotalReward:  batch.Aggregate.Reward * float64(batch.NumTestCases),
		NumTestCases: batch.NumTestCases,
	}
	t.history = append(t.history, record)

	if _, err := t.policy.Update(ctx, t.agent.Config(), record); err != nil {
		return record, fmt.Errorf("policy update after episode %d: %w", t.episode, err)
	}

	t.logger.Info("episode complete",
		"episode", record.Episode,
		"avg_reward", record.AvgReward,
		"num_test_cases", record.NumTestCases,
	)
	if t.hooks.OnEpisodeEnd != nil {
		t.hooks.OnEpisodeEnd(ctx, &domain.EpisodeEvent{
			Episode:   record.Episode,
			AvgReward: record.AvgReward,
		})
	}
	return record, nil
}

// Train runs the given number of episodes over the same case batch,
// checking for context cancellation between episodes. It returns the
// records of the episodes it ran; on failure the records completed so far
// accompany the error.
func (t *Trainer) Train(ctx context.Context, cases []domain.TestCase, episodes int) ([]domain.EpisodeRecord, error) {
	records := make([]domain.EpisodeRecord, 0, episodes)
	for i := 0; i < episodes; i++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		record, err := t.TrainStep(ctx, cases)
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Reset clears the episode counter and history.
func (t *Trainer) Reset() {
	t.episode = 0
	t.history = nil
}

// Checkpoint snapshots the current training state.
func (t *Trainer) Checkpoint() *domain.Checkpoint {
	return &domain.Checkpoint{
		Episode:         t.episode,
		TrainingHistory: t.History(),
		AgentConfig:     t.agent.Config(),
	}
}

// SaveCheckpoint persists the current state under the given run ID.
func (t *Trainer) SaveCheckpoint(ctx context.Context, runID string) error {
	if t.store == nil {
		return fmt.Errorf("save checkpoint %s: no checkpoint store configured", runID)
	}
	if err := t.store.Save(ctx, runID, t.Checkpoint()); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", runID, err)
	}
	t.logger.Info("checkpoint saved", "run_id", runID, "episode", t.episode)
	return nil
}

// LoadCheckpoint restores the episode counter and history from the store.
// The agent configuration inside the checkpoint is returned for the caller
// to act on; the trainer does not reconfigure the agent itself.
func (t *Trainer) LoadCheckpoint(ctx context.Context, runID string) (*domain.Checkpoint, error) {
	if t.store == nil {
		return nil, fmt.Errorf("load checkpoint %s: no checkpoint store configured", runID)
	}
	cp, err := t.store.Load(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", runID, err)
	}
	t.episode = cp.Episode
	t.history = make([]domain.EpisodeRecord, len(cp.TrainingHistory))
	copy(t.history, cp.TrainingHistory)
	t.logger.Info("checkpoint loaded", "run_id", runID, "episode", t.episode)
	return cp, nil
}
