package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Metric names used as ranking keys in a Comparison.
const (
	MetricTaskSuccess         = "task_success"
	MetricToolUsageEfficiency = "tool_usage_efficiency"
	MetricResponseQuality     = "response_quality"
	MetricReward              = "reward"
)

// MetricNames lists the ranking keys in canonical order.
func MetricNames() []string {
	return []string{
		MetricTaskSuccess,
		MetricToolUsageEfficiency,
		MetricResponseQuality,
		MetricReward,
	}
}

func metricValue(m domain.Metrics, name string) float64 {
	switch name {
	case MetricTaskSuccess:
		return m.TaskSuccess
	case MetricToolUsageEfficiency:
		return m.ToolUsageEfficiency
	case MetricResponseQuality:
		return m.ResponseQuality
	default:
		return m.Reward
	}
}

// Comparison is the result of running the same batch against several agents.
type Comparison struct {
	// AgentMetrics maps agent ID to its aggregate metrics.
	AgentMetrics map[string]domain.Metrics `json:"agent_metrics"`
	// Results maps agent ID to the full per-case breakdown.
	Results map[string]*BatchResult `json:"results"`
	// Rankings maps each metric name to agent IDs in descending score
	// order; ties keep registration order.
	Rankings map[string][]string `json:"rankings"`
	// BestOverall is the top-ranked agent by reward.
	BestOverall string `json:"best_overall"`
}

type registeredAgent struct {
	id    string
	agent Agent
}

// MultiAgentEvaluator runs the same case batch against a pool of agents and
// ranks them. Agents are independent; they may share a read-only tool
// registry but never conversation state.
type MultiAgentEvaluator struct {
	agents  []registeredAgent
	weights domain.RewardWeights
	logger  *slog.Logger
}

// MultiOption configures the MultiAgentEvaluator.
type MultiOption func(*MultiAgentEvaluator)

// WithMultiWeights overrides the reward weighting for every agent.
func WithMultiWeights(weights domain.RewardWeights) MultiOption {
	return func(m *MultiAgentEvaluator) {
		m.weights = weights
	}
}

// WithMultiLogger sets a structured logger.
func WithMultiLogger(logger *slog.Logger) MultiOption {
	return func(m *MultiAgentEvaluator) {
		m.logger = logger
	}
}

// NewMultiAgent creates an empty multi-agent evaluator.
func NewMultiAgent(opts ...MultiOption) *MultiAgentEvaluator {
	m := &MultiAgentEvaluator{
		weights: domain.DefaultRewardWeights(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddAgent registers an agent under an ID. Registration order is the
// tie-break order for rankings. Re-registering an ID replaces the agent but
// keeps its position.
func (m *MultiAgentEvaluator) AddAgent(id string, agent Agent) {
	for i, reg := range m.agents {
		if reg.id == id {
			m.agents[i].agent = agent
			return
		}
	}
	m.agents = append(m.agents, registeredAgent{id: id, agent: agent})
}

// Agent returns the registered agent with the given ID.
func (m *MultiAgentEvaluator) Agent(id string) (Agent, error) {
	for _, reg := range m.agents {
		if reg.id == id {
			return reg.agent, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, id)
}

// AgentIDs returns the registered IDs in registration order.
func (m *MultiAgentEvaluator) AgentIDs() []string {
	ids := make([]string, len(m.agents))
	for i, reg := range m.agents {
		ids[i] = reg.id
	}
	return ids
}

// Compare evaluates every agent over the same cases, sequentially and
// independently, and ranks them per metric in descending order.
func (m *MultiAgentEvaluator) Compare(ctx context.Context, cases []domain.TestCase) (*Comparison, error) {
	if len(m.agents) == 0 {
		return nil, domain.ErrAgentNotFound
	}

	cmp := &Comparison{
		AgentMetrics: make(map[string]domain.Metrics, len(m.agents)),
		Results:      make(map[string]*BatchResult, len(m.agents)),
		Rankings:     make(map[string][]string),
	}

	for _, reg := range m.agents {
		batch, err := New(reg.agent, WithWeights(m.weights)).EvaluateBatch(ctx, cases)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", reg.id, err)
		}
		m.logger.Info("agent evaluated", "agent", reg.id, "reward", batch.Aggregate.Reward)
		cmp.AgentMetrics[reg.id] = batch.Aggregate
		cmp.Results[reg.id] = batch
	}

	for _, name := range MetricNames() {
		ids := m.AgentIDs()
		sort.SliceStable(ids, func(i, j int) bool {
			return metricValue(cmp.AgentMetrics[ids[i]], name) > metricValue(cmp.AgentMetrics[ids[j]], name)
		})
		cmp.Rankings[name] = ids
	}
	cmp.BestOverall = cmp.Rankings[MetricReward][0]
	return cmp, nil
}
