package domain

// MatchMode selects how an expected output is compared to the actual one.
type MatchMode string

const (
	// MatchExact compares case-insensitively after trimming whitespace.
	MatchExact MatchMode = "exact_match"
	// MatchContains checks for a case-insensitive substring.
	MatchContains MatchMode = "contains"
	// MatchSemantic is a placeholder; it always scores 0.5.
	MatchSemantic MatchMode = "semantic"
)

// TestCase is one labeled evaluation case. ExpectedTools is an unordered set
// of tool names; TaskType defaults to MatchExact when empty.
type TestCase struct {
	UserInput      string    `json:"user_input" yaml:"user_input"`
	ExpectedOutput string    `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	ExpectedTools  []string  `json:"expected_tools,omitempty" yaml:"expected_tools,omitempty"`
	TaskType       MatchMode `json:"task_type,omitempty" yaml:"task_type,omitempty"`
}

// Mode returns the effective match mode for the case.
func (c TestCase) Mode() MatchMode {
	if c.TaskType == "" {
		return MatchExact
	}
	return c.TaskType
}
