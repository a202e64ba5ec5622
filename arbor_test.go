package arbor_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned responses in order.
type scriptedProvider struct {
	responses []*ports.ChatResponse
	requests  []ports.ChatRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(_ context.Context, req ports.ChatRequest) (*ports.ChatResponse, error) {
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		return &ports.ChatResponse{}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func TestFacade_ToolCallingTurn(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*ports.ChatResponse{
			{Items: []domain.TurnItem{domain.ToolCallTurn(domain.ToolCall{
				ID:           "call_1",
				Name:         "calculate",
				RawArguments: `{"expression": "15 * 23"}`,
			})}},
			{OutputText: "The answer is 345."},
		},
	}

	agent, err := arbor.New(provider,
		arbor.WithModel("test-model"),
		arbor.WithTemperature(0.7),
	)
	require.NoError(t, err)

	response, err := agent.Chat(context.Background(), "What is 15 * 23?")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 345.", response)

	calls := agent.LastToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "calculate", calls[0].Name)

	// Transcript: user, tool call, tool result, assistant answer.
	history := agent.History()
	require.Len(t, history, 4)
	assert.Equal(t, domain.TurnToolResult, history[2].Kind)
	assert.Equal(t, "345", history[2].Result.Output)
}

func TestFacade_RequiresProvider(t *testing.T) {
	_, err := arbor.New(nil)
	assert.Error(t, err)
}

func TestFacade_DefaultToolset(t *testing.T) {
	agent, err := arbor.New(&scriptedProvider{})
	require.NoError(t, err)

	assert.Equal(t, []string{"calculate", "search", "get_weather"}, agent.Registry().Names())
}

func TestFacade_ResetNewConversation(t *testing.T) {
	agent, err := arbor.New(&scriptedProvider{
		responses: []*ports.ChatResponse{{OutputText: "hi"}},
	})
	require.NoError(t, err)

	_, err = agent.Chat(context.Background(), "hello")
	require.NoError(t, err)

	before := agent.ConversationID()
	agent.Reset(true)

	assert.NotEqual(t, before, agent.ConversationID())
	assert.Empty(t, agent.History())
}

func TestFacade_Config(t *testing.T) {
	agent, err := arbor.New(&scriptedProvider{},
		arbor.WithModel("gpt-4o-mini"),
		arbor.WithTemperature(0.2),
	)
	require.NoError(t, err)

	assert.Equal(t, domain.AgentConfig{Model: "gpt-4o-mini", Temperature: 0.2}, agent.Config())
}
