package evaluation

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskSuccessExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, TaskSuccess("345", "345", domain.MatchExact))
	assert.Equal(t, 1.0, TaskSuccess("345", "  345  ", domain.MatchExact))
	assert.Equal(t, 1.0, TaskSuccess("Paris", "paris", domain.MatchExact))
	assert.Equal(t, 0.0, TaskSuccess("345", "The answer is 345", domain.MatchExact))
}

func TestTaskSuccessContains(t *testing.T) {
	assert.Equal(t, 1.0, TaskSuccess("New York", "The weather in New York is sunny", domain.MatchContains))
	assert.Equal(t, 0.0, TaskSuccess("Boston", "The weather in New York is sunny", domain.MatchContains))
}

func TestTaskSuccessSemanticPlaceholder(t *testing.T) {
	assert.Equal(t, 0.5, TaskSuccess("anything", "whatever", domain.MatchSemantic))
}

func TestToolUsageEfficiencyNoToolsExpected(t *testing.T) {
	assert.Equal(t, 1.0, ToolUsageEfficiency(nil, nil))
	assert.InDelta(t, 0.8, ToolUsageEfficiency([]domain.ToolCall{{Name: "search"}}, nil), 1e-9)
	// Six unnecessary calls bottom out at zero.
	calls := make([]domain.ToolCall, 6)
	assert.Equal(t, 0.0, ToolUsageEfficiency(calls, nil))
}

func TestToolUsageEfficiencyF1(t *testing.T) {
	// Perfect precision and recall.
	assert.Equal(t, 1.0, ToolUsageEfficiency(
		[]domain.ToolCall{{Name: "calculate"}},
		[]string{"calculate"},
	))
	// Expected tool never called.
	assert.Equal(t, 0.0, ToolUsageEfficiency(
		[]domain.ToolCall{{Name: "search"}},
		[]string{"calculate"},
	))
	// One correct of two distinct calls: precision 0.5, recall 1.0, F1 2/3.
	assert.InDelta(t, 2.0/3.0, ToolUsageEfficiency(
		[]domain.ToolCall{{Name: "calculate"}, {Name: "search"}},
		[]string{"calculate"},
	), 1e-9)
	// Duplicate calls to the same tool count once.
	assert.Equal(t, 1.0, ToolUsageEfficiency(
		[]domain.ToolCall{{Name: "calculate"}, {Name: "calculate"}},
		[]string{"calculate"},
	))
	// Nothing called at all.
	assert.Equal(t, 0.0, ToolUsageEfficiency(nil, []string{"calculate"}))
}

func TestResponseQuality(t *testing.T) {
	assert.Equal(t, 0.0, ResponseQuality("", defaultMinLength, defaultMaxLength))
	// Comfortable length, no error marker: full score.
	assert.InDelta(t, 1.0, ResponseQuality("The answer is 345.", defaultMinLength, defaultMaxLength), 1e-9)
	// "error" within the first 50 characters loses the 0.2 component.
	assert.InDelta(t, 0.8, ResponseQuality("Error: something went wrong here", defaultMinLength, defaultMaxLength), 1e-9)
	// Short responses scale the length component linearly.
	short := ResponseQuality("hi", defaultMinLength, defaultMaxLength)
	assert.InDelta(t, 0.2*0.6+0.2+0.2, short, 1e-9)
	// Very long responses decay but never go negative.
	long := ResponseQuality(strings.Repeat("a", 2000), defaultMinLength, defaultMaxLength)
	assert.GreaterOrEqual(t, long, 0.0)
	assert.Less(t, long, 1.0)
}

func TestReward(t *testing.T) {
	weights := domain.DefaultRewardWeights()
	assert.InDelta(t, 1.0, Reward(1, 1, 1, weights), 1e-9)
	assert.InDelta(t, 0.5, Reward(1, 0, 0, weights), 1e-9)
	assert.InDelta(t, 0.3, Reward(0, 1, 0, weights), 1e-9)
	assert.InDelta(t, 0.2, Reward(0, 0, 1, weights), 1e-9)

	custom := domain.RewardWeights{TaskSuccess: 1}
	assert.InDelta(t, 0.7, Reward(0.7, 0.1, 0.9, custom), 1e-9)
}
