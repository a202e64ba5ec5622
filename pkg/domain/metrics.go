package domain

// Metrics holds the per-interaction evaluation scores. Each component is in
// [0,1]; Reward is a weighted sum of the other three and is only bounded by
// the weights.
type Metrics struct {
	TaskSuccess         float64 `json:"task_success"`
	ToolUsageEfficiency float64 `json:"tool_usage_efficiency"`
	ResponseQuality     float64 `json:"response_quality"`
	Reward              float64 `json:"reward"`
}

// RewardWeights weight the components of the composite reward.
// By convention they sum to 1.0; this is not enforced.
type RewardWeights struct {
	TaskSuccess         float64 `json:"task_success" yaml:"task_success"`
	ToolUsageEfficiency float64 `json:"tool_usage_efficiency" yaml:"tool_usage_efficiency"`
	ResponseQuality     float64 `json:"response_quality" yaml:"response_quality"`
}

// DefaultRewardWeights returns the standard 0.5/0.3/0.2 weighting.
func DefaultRewardWeights() RewardWeights {
	return RewardWeights{
		TaskSuccess:         0.5,
		ToolUsageEfficiency: 0.3,
		ResponseQuality:     0.2,
	}
}
