package evaluation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAgent answers by keyword lookup, deterministically, and reports a
// fixed tool-call trace per answer.
type scriptedAgent struct {
	answers   map[string]scriptedAnswer
	lastCalls []domain.ToolCall
	resets    int
}

type scriptedAnswer struct {
	response string
	calls    []domain.ToolCall
}

func newScriptedAgent() *scriptedAgent {
	return &scriptedAgent{
		answers: map[string]scriptedAnswer{
			"15 * 23": {
				response: "345",
				calls:    []domain.ToolCall{{ID: "call_1", Name: "calculate"}},
			},
			"100 divided by 4": {
				response: "25",
				calls:    []domain.ToolCall{{ID: "call_2", Name: "calculate"}},
			},
			"weather": {
				response: "The weather in New York is sunny, 72°F.",
				calls:    []domain.ToolCall{{ID: "call_3", Name: "get_weather"}},
			},
		},
	}
}

func (a *scriptedAgent) Chat(_ context.Context, userMessage string) (string, error) {
	a.lastCalls = nil
	for key, ans := range a.answers {
		if strings.Contains(userMessage, key) {
			a.lastCalls = ans.calls
			return ans.response, nil
		}
	}
	return "I'm doing well, thanks for asking! How can I help you today?", nil
}

func (a *scriptedAgent) Reset(newConversation bool) {
	if newConversation {
		a.resets++
	}
}

func (a *scriptedAgent) LastToolCalls() []domain.ToolCall {
	return a.lastCalls
}

func (a *scriptedAgent) Config() domain.AgentConfig {
	return domain.AgentConfig{Model: "scripted", Temperature: 0.7}
}

var _ Agent = (*scriptedAgent)(nil)

func TestEvaluateSinglePerfectCase(t *testing.T) {
	agent := newScriptedAgent()
	ev := New(agent)

	result, err := ev.EvaluateSingle(context.Background(), domain.TestCase{
		UserInput:      "What is 15 * 23?",
		ExpectedOutput: "345",
		ExpectedTools:  []string{"calculate"},
		TaskType:       domain.MatchExact,
	})
	require.NoError(t, err)

	assert.Equal(t, "345", result.Response)
	assert.Equal(t, 1.0, result.Metrics.TaskSuccess)
	assert.Equal(t, 1.0, result.Metrics.ToolUsageEfficiency)
	assert.Equal(t, 1, agent.resets, "each case starts a fresh conversation")
}

func TestEvaluateSingleNoExpectedOutput(t *testing.T) {
	ev := New(newScriptedAgent())

	result, err := ev.EvaluateSingle(context.Background(), domain.TestCase{
		UserInput: "Hello, how are you?",
		TaskType:  domain.MatchContains,
	})
	require.NoError(t, err)

	// Without an expected output the success component stays at zero but
	// still carries its weight in the reward.
	assert.Equal(t, 0.0, result.Metrics.TaskSuccess)
	assert.Equal(t, 1.0, result.Metrics.ToolUsageEfficiency)
	assert.Greater(t, result.Metrics.Reward, 0.0)
}

func TestEvaluateBatchEmpty(t *testing.T) {
	ev := New(newScriptedAgent())

	_, err := ev.EvaluateBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoTestCases)
}

func TestEvaluateBatchAggregates(t *testing.T) {
	ev := New(newScriptedAgent())
	cases := []domain.TestCase{
		{
			UserInput:      "What is 15 * 23?",
			ExpectedOutput: "345",
			ExpectedTools:  []string{"calculate"},
			TaskType:       domain.MatchExact,
		},
		{
			UserInput:      "What's the weather like?",
			ExpectedOutput: "New York",
			ExpectedTools:  []string{"get_weather"},
			TaskType:       domain.MatchContains,
		},
	}

	batch, err := ev.EvaluateBatch(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.NumTestCases)
	assert.Len(t, batch.Results, 2)
	assert.Equal(t, 1.0, batch.Aggregate.TaskSuccess)
	assert.Equal(t, 1.0, batch.Aggregate.ToolUsageEfficiency)
	wantReward := (batch.Results[0].Metrics.Reward + batch.Results[1].Metrics.Reward) / 2
	assert.InDelta(t, wantReward, batch.Aggregate.Reward, 1e-9)
}

func TestEvaluateBatchDeterministic(t *testing.T) {
	cases := SampleCases()

	first, err := New(newScriptedAgent()).EvaluateBatch(context.Background(), cases)
	require.NoError(t, err)
	second, err := New(newScriptedAgent()).EvaluateBatch(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, first.Aggregate, second.Aggregate)
}

func TestEvaluateFile(t *testing.T) {
	cases := []domain.TestCase{
		{
			UserInput:      "What is 15 * 23?",
			ExpectedOutput: "345",
			ExpectedTools:  []string{"calculate"},
			TaskType:       domain.MatchExact,
		},
	}
	data, err := json.Marshal(cases)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	batch, err := New(newScriptedAgent()).EvaluateFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.NumTestCases)
	assert.Equal(t, 1.0, batch.Aggregate.TaskSuccess)
}

func TestEvaluateFileMissing(t *testing.T) {
	_, err := New(newScriptedAgent()).EvaluateFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
