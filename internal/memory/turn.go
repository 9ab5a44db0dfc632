// Package memory owns the persistent conversation log and its
// compaction policy. The log is an ordered sequence of Turns; it is the
// literal context sent to the model on every completion request.
package memory

import (
	"encoding/json"
	"fmt"
)

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a tool invocation recorded on an assistant turn.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Turn is one unit of conversation history. Turns are immutable once
// appended; compaction removes turns and inserts a synthetic summary
// turn rather than editing in place.
//
// Only the fields valid for a turn's role may be set: ToolCalls appears
// on assistant turns requesting tools, ToolCallID and Name on tool
// result turns. Validate enforces this; use the per-role constructors
// rather than building Turn literals.
type Turn struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// SystemTurn creates a system turn.
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// UserTurn creates a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn creates an assistant turn. Content may be empty when
// calls is non-empty (the model requesting tools without commentary).
func AssistantTurn(content string, calls []ToolCall) Turn {
	return Turn{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolTurn creates a tool result turn correlated to a prior assistant
// tool call by callID.
func ToolTurn(callID, name, output string) Turn {
	return Turn{Role: RoleTool, Content: output, ToolCallID: callID, Name: name}
}

// Validate checks that the turn carries only the fields valid for its
// role.
func (t Turn) Validate() error {
	switch t.Role {
	case RoleSystem, RoleUser:
		if len(t.ToolCalls) > 0 || t.ToolCallID != "" || t.Name != "" {
			return fmt.Errorf("%s turn must not carry tool fields", t.Role)
		}
	case RoleAssistant:
		if t.ToolCallID != "" || t.Name != "" {
			return fmt.Errorf("assistant turn must not carry tool result fields")
		}
		if t.Content == "" && len(t.ToolCalls) == 0 {
			return fmt.Errorf("assistant turn needs content or tool calls")
		}
	case RoleTool:
		if t.ToolCallID == "" || t.Name == "" {
			return fmt.Errorf("tool turn requires tool_call_id and name")
		}
		if len(t.ToolCalls) > 0 {
			return fmt.Errorf("tool turn must not carry tool calls")
		}
	default:
		return fmt.Errorf("unknown role %q", t.Role)
	}
	return nil
}

// SerializedSize returns the byte length of the JSON encoding of the
// log. This is the size heuristic used by the compaction policy; it is
// a proxy, not a token count.
func SerializedSize(turns []Turn) int {
	data, err := json.Marshal(turns)
	if err != nil {
		return 0
	}
	return len(data)
}

// trimDangling drops the trailing group of turns starting at the first
// tool turn whose tool_call_id has no matching preceding assistant tool
// call. Such a tail is the footprint of a session that crashed between
// appends; the prefix before it is still a coherent conversation.
// Returns the (possibly shortened) log and the number of turns dropped.
func trimDangling(turns []Turn) ([]Turn, int) {
	seen := make(map[string]bool)
	for i, t := range turns {
		if t.Role == RoleAssistant {
			for _, tc := range t.ToolCalls {
				seen[tc.ID] = true
			}
		}
		if t.Role == RoleTool && !seen[t.ToolCallID] {
			return turns[:i], len(turns) - i
		}
	}
	return turns, 0
}
