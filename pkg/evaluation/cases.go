package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/arbor/pkg/domain"
)

// LoadCases reads a JSON file containing a list of test cases.
func LoadCases(path string) ([]domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}
	var cases []domain.TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse case file %s: %w", path, err)
	}
	return cases, nil
}

// SampleCases returns a small built-in case set covering tool use and plain
// conversation, handy for smoke tests and demos.
func SampleCases() []domain.TestCase {
	return []domain.TestCase{
		{
			UserInput:      "What is 15 * 23?",
			ExpectedOutput: "345",
			ExpectedTools:  []string{"calculate"},
			TaskType:       domain.MatchExact,
		},
		{
			UserInput:      "Calculate 100 divided by 4",
			ExpectedOutput: "25",
			ExpectedTools:  []string{"calculate"},
			TaskType:       domain.MatchExact,
		},
		{
			UserInput:      "What's the weather in New York?",
			ExpectedOutput: "New York",
			ExpectedTools:  []string{"get_weather"},
			TaskType:       domain.MatchContains,
		},
		{
			UserInput: "Hello, how are you?",
			TaskType:  domain.MatchContains,
		},
	}
}
