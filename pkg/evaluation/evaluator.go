package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Agent is the slice of the chat agent the evaluator needs. *arbor.Agent
// satisfies it; tests use deterministic stand-ins.
type Agent interface {
	Chat(ctx context.Context, userMessage string) (string, error)
	Reset(newConversation bool)
	LastToolCalls() []domain.ToolCall
	Config() domain.AgentConfig
}

// CaseResult holds one evaluated case with the agent's observable behavior.
type CaseResult struct {
	Case      domain.TestCase   `json:"test_case"`
	Response  string            `json:"response"`
	ToolCalls []domain.ToolCall `json:"tool_calls,omitempty"`
	Metrics   domain.Metrics    `json:"metrics"`
}

// BatchResult aggregates a full evaluation run.
type BatchResult struct {
	Aggregate    domain.Metrics `json:"aggregate_metrics"`
	Results      []CaseResult   `json:"individual_results"`
	NumTestCases int            `json:"num_test_cases"`
}

// Evaluator drives one agent over labeled test cases and scores each
// interaction.
type Evaluator struct {
	agent   Agent
	weights domain.RewardWeights
	logger  *slog.Logger
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithWeights overrides the reward weighting.
func WithWeights(weights domain.RewardWeights) Option {
	return func(e *Evaluator) {
		e.weights = weights
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New creates an evaluator for the given agent.
func New(agent Agent, opts ...Option) *Evaluator {
	e := &Evaluator{
		agent:   agent,
		weights: domain.DefaultRewardWeights(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateSingle runs one test case against a freshly reset agent and scores
// the interaction. Backend failures propagate; tool-level failures are
// already absorbed by the engine and only depress the scores.
func (e *Evaluator) EvaluateSingle(ctx context.Context, tc domain.TestCase) (CaseResult, error) {
	e.agent.Reset(true)

	response, err := e.agent.Chat(ctx, tc.UserInput)
	if err != nil {
		return CaseResult{}, fmt.Errorf("evaluate case: %w", err)
	}
	calls := e.agent.LastToolCalls()

	taskSuccess := 0.0
	if tc.ExpectedOutput != "" {
		taskSuccess = TaskSuccess(tc.ExpectedOutput, response, tc.Mode())
	}
	efficiency := ToolUsageEfficiency(calls, tc.ExpectedTools)
	quality := ResponseQuality(response, defaultMinLength, defaultMaxLength)

	metrics := domain.Metrics{
		TaskSuccess:         taskSuccess,
		ToolUsageEfficiency: efficiency,
		ResponseQuality:     quality,
		Reward:              Reward(taskSuccess, efficiency, quality, e.weights),
	}
	return CaseResult{
		Case:      tc,
		Response:  response,
		ToolCalls: calls,
		Metrics:   metrics,
	}, nil
}

// EvaluateBatch maps EvaluateSingle over the cases in order and averages
// each metric arithmetically.
func (e *Evaluator) EvaluateBatch(ctx context.Context, cases []domain.TestCase) (*BatchResult, error) {
	if len(cases) == 0 {
		return nil, domain.ErrNoTestCases
	}

	batch := &BatchResult{
		Results:      make([]CaseResult, 0, len(cases)),
		NumTestCases: len(cases),
	}
	var sum domain.Metrics
	for i, tc := range cases {
		result, err := e.EvaluateSingle(ctx, tc)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		e.logger.Debug("case evaluated",
			"case", i,
			"reward", result.Metrics.Reward,
			"tool_calls", len(result.ToolCalls),
		)
		batch.Results = append(batch.Results, result)
		sum.TaskSuccess += result.Metrics.TaskSuccess
		sum.ToolUsageEfficiency += result.Metrics.ToolUsageEfficiency
		sum.ResponseQuality += result.Metrics.ResponseQuality
		sum.Reward += result.Metrics.Reward
	}

	n := float64(len(cases))
	batch.Aggregate = domain.Metrics{
		TaskSuccess:         sum.TaskSuccess / n,
		ToolUsageEfficiency: sum.ToolUsageEfficiency / n,
		ResponseQuality:     sum.ResponseQuality / n,
		Reward:              sum.Reward / n,
	}
	return batch, nil
}

// EvaluateFile loads a JSON case file and evaluates it as a batch.
func (e *Evaluator) EvaluateFile(ctx context.Context, path string) (*BatchResult, error) {
	cases, err := LoadCases(path)
	if err != nil {
		return nil, err
	}
	return e.EvaluateBatch(ctx, cases)
}
