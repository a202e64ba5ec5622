package domain

// TurnKind tags the variant of a TurnItem.
type TurnKind string

const (
	// TurnUser is a message authored by the end user.
	TurnUser TurnKind = "user"
	// TurnAssistant is natural-language text produced by the model.
	TurnAssistant TurnKind = "assistant"
	// TurnToolCall is a tool invocation requested by the model.
	TurnToolCall TurnKind = "tool_call"
	// TurnToolResult is the output of a locally executed tool.
	TurnToolResult TurnKind = "tool_result"
)

// TurnItem is one step of dialogue in canonical form. Exactly one of the
// payload fields is populated, according to Kind. Backend adapters normalize
// every wire shape into this representation before the engine sees it.
type TurnItem struct {
	Kind   TurnKind    `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Call   *ToolCall   `json:"call,omitempty"`
	Result *ToolResult `json:"result,omitempty"`
}

// UserTurn builds a user message item.
func UserTurn(text string) TurnItem {
	return TurnItem{Kind: TurnUser, Text: text}
}

// AssistantTurn builds an assistant text item.
func AssistantTurn(text string) TurnItem {
	return TurnItem{Kind: TurnAssistant, Text: text}
}

// ToolCallTurn builds a tool invocation item.
func ToolCallTurn(call ToolCall) TurnItem {
	return TurnItem{Kind: TurnToolCall, Call: &call}
}

// ToolResultTurn builds a tool result item correlated by call ID.
func ToolResultTurn(callID, output string) TurnItem {
	return TurnItem{Kind: TurnToolResult, Result: &ToolResult{ID: callID, Output: output}}
}
