// Package tools provides the builtin tool set: a safe arithmetic calculator
// and mock search and weather lookups. DefaultRegistry wires them into a
// fresh registry; applications with their own tools can start from an empty
// one instead.
package tools

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

type calculateParams struct {
	Expression string `mapstructure:"expression"`
}

type searchParams struct {
	Query string `mapstructure:"query"`
}

type weatherParams struct {
	Location string `mapstructure:"location"`
}

// Calculate returns the arithmetic evaluation tool.
func Calculate() domain.Tool {
	return domain.Tool{
		Name:        "calculate",
		Description: "Perform mathematical calculations. Input should be a valid mathematical expression.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "Mathematical expression to evaluate (e.g., '2 + 2', '10 * 5')",
				},
			},
			"required": []string{"expression"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			var params calculateParams
			if err := mapstructure.Decode(args, &params); err != nil {
				return nil, fmt.Errorf("decode arguments: %w", err)
			}
			value, err := evalExpression(params.Expression)
			if err != nil {
				return nil, err
			}
			return formatNumber(value), nil
		},
	}
}

// Search returns the mock web-search tool.
func Search() domain.Tool {
	return domain.Tool{
		Name:        "search",
		Description: "Search for information on the web",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			var params searchParams
			if err := mapstructure.Decode(args, &params); err != nil {
				return nil, fmt.Errorf("decode arguments: %w", err)
			}
			// Mock implementation; a real one would call a search API.
			return fmt.Sprintf("Search results for: %s (mock)", params.Query), nil
		},
	}
}

// GetWeather returns the mock weather lookup tool.
func GetWeather() domain.Tool {
	return domain.Tool{
		Name:        "get_weather",
		Description: "Get current weather information for a location",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City name or location",
				},
			},
			"required": []string{"location"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			var params weatherParams
			if err := mapstructure.Decode(args, &params); err != nil {
				return nil, fmt.Errorf("decode arguments: %w", err)
			}
			// Mock implementation; a real one would call a weather API.
			return fmt.Sprintf("Weather in %s: Sunny, 72°F (mock)", params.Location), nil
		},
	}
}

// DefaultRegistry builds a registry with the builtin tools.
func DefaultRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register(Calculate())
	reg.Register(Search())
	reg.Register(GetWeather())
	return reg
}
