// Package tools defines the tools available to the agent: a registry
// mapping tool names to handlers with declared parameter schemas, and a
// dispatcher that turns any outcome — success, unknown tool, missing
// argument, handler failure, even a panic — into a tool result the
// model can read. Tool failures are conversation content, not crashes.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string
	Description string
	// Parameters is the JSON-schema parameter declaration advertised
	// to the model. Its "required" list is the only part the
	// dispatcher enforces; value types are the tool's own concern.
	Parameters map[string]any
	Handler    func(ctx context.Context, args map[string]any) (string, error)
}

// Result is the outcome of dispatching one tool call. Output is always
// a string; failures are encoded as error text rather than surfaced as
// Go errors, so the model can see and react to them.
type Result struct {
	ToolCallID string
	Name       string
	Output     string
	IsError    bool
}

// Registry holds available tools.
type Registry struct {
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry, replacing any previous tool of
// the same name.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get retrieves a tool by name, or nil.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Names returns registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas returns all tool declarations in the function-calling format
// the model API expects.
func (r *Registry) Schemas() []map[string]any {
	var result []map[string]any
	for _, name := range r.Names() {
		t := r.tools[name]
		result = append(result, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return result
}

// Execute runs a tool by name. It returns typed errors for unknown
// tools and missing required arguments, and recovers handler panics
// into errors. Callers wanting the never-fails contract use Dispatch.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (output string, err error) {
	tool := r.tools[name]
	if tool == nil {
		return "", &UnknownToolError{Name: name}
	}

	for _, req := range requiredParams(tool) {
		if _, ok := args[req]; !ok {
			return "", &MissingArgumentError{Tool: name, Argument: req}
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", name, rec)
		}
	}()

	return tool.Handler(ctx, args)
}

// Dispatch executes a tool call and always returns a Result: tool
// failures of every kind become error text in Output. This is the total
// function the agent loop relies on — a hallucinated tool name or a bad
// argument must flow back into the conversation, never up the stack.
func (r *Registry) Dispatch(ctx context.Context, callID, name string, args map[string]any) Result {
	output, err := r.Execute(ctx, name, args)
	if err != nil {
		r.logger.Warn("tool call failed",
			"tool", name,
			"call_id", callID,
			"error", err,
		)
		return Result{
			ToolCallID: callID,
			Name:       name,
			Output:     "error: " + err.Error(),
			IsError:    true,
		}
	}

	r.logger.Debug("tool call succeeded", "tool", name, "call_id", callID)
	return Result{
		ToolCallID: callID,
		Name:       name,
		Output:     output,
	}
}

// requiredParams extracts the "required" list from a tool's parameter
// schema. Both []string and []any (the shape JSON decoding produces)
// are accepted.
func requiredParams(t *Tool) []string {
	raw, ok := t.Parameters["required"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
