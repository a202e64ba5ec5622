package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
)

// MultiAgentTrainer trains a pool of agents side by side over the same case
// batch, keeping an independent trainer per agent.
type MultiAgentTrainer struct {
	ids      []string
	trainers map[string]*Trainer
	weights  domain.RewardWeights
	logger   *slog.Logger
}

// MultiOption configures the MultiAgentTrainer.
type MultiOption func(*MultiAgentTrainer)

// WithMultiWeights overrides the reward weighting for every agent.
func WithMultiWeights(weights domain.RewardWeights) MultiOption {
	return func(m *MultiAgentTrainer) {
		m.weights = weights
	}
}

// WithMultiLogger sets a structured logger.
func WithMultiLogger(logger *slog.Logger) MultiOption {
	return func(m *MultiAgentTrainer) {
		m.logger = logger
	}
}

// NewMultiAgent creates an empty multi-agent trainer.
func NewMultiAgent(opts ...MultiOption) *MultiAgentTrainer {
	m := &MultiAgentTrainer{
		trainers: make(map[string]*Trainer),
		weights:  domain.DefaultRewardWeights(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddAgent registers an agent under an ID with a fresh trainer.
// Re-registering an ID replaces the trainer but keeps its position.
func (m *MultiAgentTrainer) AddAgent(id string, agent evaluation.Agent, opts ...Option) {
	opts = append([]Option{WithWeights(m.weights), WithLogger(m.logger)}, opts...)
	if _, ok := m.trainers[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.trainers[id] = New(agent, opts...)
}

// AgentIDs returns the registered IDs in registration order.
func (m *MultiAgentTrainer) AgentIDs() []string {
	ids := make([]string, len(m.ids))
	copy(ids, m.ids)
	return ids
}

// Trainer returns the per-agent trainer for the given ID.
func (m *MultiAgentTrainer) Trainer(id string) (*Trainer, error) {
	t, ok := m.trainers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, id)
	}
	return t, nil
}

// Train runs the given number of episodes for every agent, sequentially in
// registration order, and returns each agent's episode records.
func (m *MultiAgentTrainer) Train(ctx context.Context, cases []domain.TestCase, episodes int) (map[string][]domain.EpisodeRecord, error) {
	if len(m.ids) == 0 {
		return nil, domain.ErrAgentNotFound
	}
	out := make(map[string][]domain.EpisodeRecord, len(m.ids))
	for _, id := range m.ids {
		records, err := m.trainers[id].Train(ctx, cases, episodes)
		if err != nil {
			return out, fmt.Errorf("agent %s: %w", id, err)
		}
		out[id] = records
		m.logger.Info("agent trained", "agent", id, "episodes", len(records))
	}
	return out, nil
}

// BestAgent returns the ID with the highest average reward over its latest
// episode. Agents with no history score zero; ties keep registration order.
func (m *MultiAgentTrainer) BestAgent() (string, error) {
	if len(m.ids) == 0 {
		return "", domain.ErrAgentNotFound
	}
	best := m.ids[0]
	bestReward := latestReward(m.trainers[best])
	for _, id := range m.ids[1:] {
		if r := latestReward(m.trainers[id]); r > bestReward {
			best, bestReward = id, r
		}
	}
	return best, nil
}

func latestReward(t *Trainer) float64 {
	if len(t.history) == 0 {
		return 0
	}
	return t.history[len(t.history)-1].AvgReward
}
