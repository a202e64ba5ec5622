package domain

// AgentConfig is the serializable identity of an agent: which model it talks
// to and with which sampling temperature.
type AgentConfig struct {
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// EpisodeRecord is the rollup of one training episode: one full pass of the
// case batch through an agent.
type EpisodeRecord struct {
	Episode      int     `json:"episode"`
	AvgReward    float64 `json:"avg_reward"`
	TotalReward  float64 `json:"total_reward"`
	NumTestCases int     `json:"num_test_cases"`
}

// Checkpoint is a durable snapshot of a training run: the episode counter,
// the full per-episode history and the configuration of the trained agent.
type Checkpoint struct {
	Episode         int             `json:"episode"`
	TrainingHistory []EpisodeRecord `json:"training_history"`
	AgentConfig     AgentConfig     `json:"agent_config"`
}
