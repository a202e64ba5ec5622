// Package evaluation scores agent interactions against labeled test cases
// and aggregates the results, for single agents and for pools of competing
// agents.
package evaluation

import (
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// TaskSuccess scores how well the actual output matches the expected one.
//
// MatchExact compares case-insensitively after trimming whitespace and yields
// 1.0 or 0.0. MatchContains yields 1.0 when the lowercased expected string
// appears anywhere in the lowercased actual one. MatchSemantic is a
// placeholder and always yields 0.5; no embedding similarity is implemented.
func TaskSuccess(expected, actual string, mode domain.MatchMode) float64 {
	switch mode {
	case domain.MatchExact:
		if strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(actual)) {
			return 1.0
		}
		return 0.0
	case domain.MatchContains:
		if strings.Contains(strings.ToLower(actual), strings.ToLower(expected)) {
			return 1.0
		}
		return 0.0
	default:
		return 0.5
	}
}

// ToolUsageEfficiency scores tool selection against the expected tool set.
//
// With no expected tools, every call made is unnecessary and costs 0.2.
// Otherwise the score is the F1 harmonic mean of precision (expected tools
// among the distinct tools called) and recall (expected tools that were
// called at all).
func ToolUsageEfficiency(calls []domain.ToolCall, expectedTools []string) float64 {
	if len(expectedTools) == 0 {
		score := 1.0 - 0.2*float64(len(calls))
		if score < 0 {
			return 0.0
		}
		return score
	}

	called := make(map[string]bool, len(calls))
	for _, call := range calls {
		called[call.Name] = true
	}

	correct := 0
	for _, name := range expectedTools {
		if called[name] {
			correct++
		}
	}

	precision := 0.0
	if len(called) > 0 {
		precision = float64(correct) / float64(len(called))
	}
	recall := float64(correct) / float64(len(expectedTools))

	if precision+recall == 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}

const (
	defaultMinLength = 10
	defaultMaxLength = 500
)

// ResponseQuality scores a response on crude textual heuristics: length fit
// within [minLen,maxLen] (weight 0.6), non-empty content (0.2) and the
// absence of "error" in the first 50 characters (0.2).
func ResponseQuality(response string, minLen, maxLen int) float64 {
	if response == "" {
		return 0.0
	}

	length := len(response)
	var lengthScore float64
	switch {
	case length >= minLen && length <= maxLen:
		lengthScore = 1.0
	case length < minLen:
		lengthScore = float64(length) / float64(minLen)
	default:
		lengthScore = 1.0 - float64(length-maxLen)/float64(maxLen)
		if lengthScore < 0 {
			lengthScore = 0.0
		}
	}

	hasContent := 0.0
	if strings.TrimSpace(response) != "" {
		hasContent = 1.0
	}

	head := strings.ToLower(response)
	if len(head) > 50 {
		head = head[:50]
	}
	notError := 0.0
	if !strings.Contains(head, "error") {
		notError = 1.0
	}

	score := lengthScore*0.6 + hasContent*0.2 + notError*0.2
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// Reward combines the component scores into the composite reward used by the
// trainer. Weights conventionally sum to 1.0 but are not enforced.
func Reward(taskSuccess, toolUsageEfficiency, responseQuality float64, weights domain.RewardWeights) float64 {
	return taskSuccess*weights.TaskSuccess +
		toolUsageEfficiency*weights.ToolUsageEfficiency +
		responseQuality*weights.ResponseQuality
}
