// Package llm provides LLM client implementations.
package llm

// Message represents a chat message for the LLM.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool responses
	Name       string     `json:"name,omitempty"`         // Tool name on tool responses
}

// ToolCall represents a tool invocation requested by the model.
// Arguments use proper Go types — wire format conversion (Mistral sends
// arguments as a JSON string) happens at the provider boundary.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ChatResponse is the unified response from any LLM provider.
type ChatResponse struct {
	Model        string
	Message      Message
	FinishReason string

	// Token usage (provider-neutral)
	InputTokens  int
	OutputTokens int
}

// HasToolCalls reports whether the model requested tool execution.
func (r *ChatResponse) HasToolCalls() bool {
	return len(r.Message.ToolCalls) > 0
}
