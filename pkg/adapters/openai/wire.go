package openai

import (
	"encoding/json"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// wireMessage is a chat-completions message.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    any            `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

// wireToolCall is a tool invocation on the wire. Backends disagree on the
// identifier field name, so all three spellings are decoded.
type wireToolCall struct {
	ID         string       `json:"id,omitempty"`
	CallID     string       `json:"call_id,omitempty"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
	Type       string       `json:"type,omitempty"`
	Function   wireFunction `json:"function"`
}

// identifier resolves the call ID with precedence call_id, id, tool_call_id.
func (c *wireToolCall) identifier() string {
	if c.CallID != "" {
		return c.CallID
	}
	if c.ID != "" {
		return c.ID
	}
	return c.ToolCallID
}

// wireFunction carries the name and arguments of a tool call. Arguments is
// kept raw because backends send either a JSON-encoded string or an inline
// object.
type wireFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireRequest struct {
	Model              string        `json:"model"`
	Messages           []wireMessage `json:"messages"`
	Tools              []wireTool    `json:"tools,omitempty"`
	Temperature        *float64      `json:"temperature,omitempty"`
	PreviousResponseID string        `json:"previous_response_id,omitempty"`
}

type wireResponse struct {
	ID      string       `json:"id"`
	Choices []wireChoice `json:"choices"`
}

type wireChoice struct {
	Message wireMessage `json:"message"`
}

// encodeMessages converts canonical turn items to wire messages. Consecutive
// tool-call items fold into one assistant message, the shape the API expects
// before its matching tool results.
func encodeMessages(items []domain.TurnItem) []wireMessage {
	var messages []wireMessage
	for _, item := range items {
		switch item.Kind {
		case domain.TurnUser:
			messages = append(messages, wireMessage{Role: "user", Content: item.Text})
		case domain.TurnAssistant:
			messages = append(messages, wireMessage{Role: "assistant", Content: item.Text})
		case domain.TurnToolCall:
			if item.Call == nil {
				continue
			}
			call := wireToolCall{
				ID:   item.Call.ID,
				Type: "function",
				Function: wireFunction{
					Name:      item.Call.Name,
					Arguments: encodeArguments(*item.Call),
				},
			}
			if n := len(messages); n > 0 && messages[n-1].Role == "assistant" && len(messages[n-1].ToolCalls) > 0 {
				messages[n-1].ToolCalls = append(messages[n-1].ToolCalls, call)
				continue
			}
			messages = append(messages, wireMessage{Role: "assistant", ToolCalls: []wireToolCall{call}})
		case domain.TurnToolResult:
			if item.Result == nil {
				continue
			}
			messages = append(messages, wireMessage{
				Role:       "tool",
				Content:    item.Result.Output,
				ToolCallID: item.Result.ID,
			})
		}
	}
	return messages
}

// encodeArguments serializes a call's arguments as the JSON string the wire
// expects, preferring the raw form the backend originally sent.
func encodeArguments(call domain.ToolCall) json.RawMessage {
	if call.RawArguments != "" {
		quoted, _ := json.Marshal(call.RawArguments)
		return quoted
	}
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	inner, _ := json.Marshal(args)
	quoted, _ := json.Marshal(string(inner))
	return quoted
}

func encodeTools(tools []domain.Tool) []wireTool {
	out := make([]wireTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, wireTool{
			Type: "function",
			Function: wireToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return out
}

// decodeResponse normalizes the first choice into the canonical form.
func decodeResponse(wr *wireResponse) *ports.ChatResponse {
	resp := &ports.ChatResponse{ID: wr.ID}
	if len(wr.Choices) == 0 {
		return resp
	}
	msg := wr.Choices[0].Message

	if text, ok := msg.Content.(string); ok && text != "" {
		resp.OutputText = text
		resp.Items = append(resp.Items, domain.AssistantTurn(text))
	}
	for _, wc := range msg.ToolCalls {
		call := domain.ToolCall{
			ID:   wc.identifier(),
			Name: wc.Function.Name,
		}
		call.RawArguments, call.Args = decodeArguments(wc.Function.Arguments)
		resp.Items = append(resp.Items, domain.ToolCallTurn(call))
	}
	return resp
}

// decodeArguments handles both encodings of tool arguments: a JSON-encoded
// string (the common case) and an inline object.
func decodeArguments(raw json.RawMessage) (string, map[string]any) {
	if len(raw) == 0 {
		return "", nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}
	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return string(raw), asObject
	}
	return string(raw), nil
}
