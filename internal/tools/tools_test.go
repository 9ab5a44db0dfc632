package tools

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRegistry() *Registry {
	r := NewRegistry(testLogger())
	r.Register(&Tool{
		Name:        "echo",
		Description: "Echo back the message.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
			"required": []string{"message"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return StringArg(args, "message"), nil
		},
	})
	r.Register(&Tool{
		Name:        "boom",
		Description: "Always fails.",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "", errors.New("backend unavailable")
		},
	})
	r.Register(&Tool{
		Name:        "panicky",
		Description: "Panics.",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			panic("oops")
		},
	})
	return r
}

func TestExecuteSuccess(t *testing.T) {
	r := testRegistry()
	out, err := r.Execute(context.Background(), "echo", map[string]any{"message": "hi"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "hi" {
		t.Errorf("output = %q", out)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := testRegistry()
	_, err := r.Execute(context.Background(), "delete_universe", nil)
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v (%T), want *UnknownToolError", err, err)
	}
	if unknown.Name != "delete_universe" {
		t.Errorf("name = %q", unknown.Name)
	}
}

func TestExecuteMissingArgument(t *testing.T) {
	r := testRegistry()
	_, err := r.Execute(context.Background(), "echo", map[string]any{})
	var missing *MissingArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v (%T), want *MissingArgumentError", err, err)
	}
	if missing.Argument != "message" {
		t.Errorf("argument = %q", missing.Argument)
	}
}

func TestDispatchNeverFails(t *testing.T) {
	r := testRegistry()
	calls := []struct {
		name string
		args map[string]any
	}{
		{"echo", map[string]any{"message": "ok"}},
		{"echo", nil},                 // missing required arg
		{"delete_universe", nil},      // unknown tool
		{"boom", map[string]any{}},    // handler error
		{"panicky", map[string]any{}}, // handler panic
	}

	for _, c := range calls {
		res := r.Dispatch(context.Background(), "call-1", c.name, c.args)
		if res.ToolCallID != "call-1" {
			t.Errorf("%s: call id = %q", c.name, res.ToolCallID)
		}
		if res.Output == "" {
			t.Errorf("%s: empty output", c.name)
		}
	}
}

func TestDispatchErrorEncoding(t *testing.T) {
	r := testRegistry()

	res := r.Dispatch(context.Background(), "c1", "delete_universe", nil)
	if !res.IsError {
		t.Error("unknown tool result not flagged as error")
	}
	if !strings.HasPrefix(res.Output, "error: ") || !strings.Contains(res.Output, "unknown tool") {
		t.Errorf("output = %q", res.Output)
	}

	res = r.Dispatch(context.Background(), "c2", "boom", map[string]any{})
	if !res.IsError || !strings.Contains(res.Output, "backend unavailable") {
		t.Errorf("output = %q", res.Output)
	}

	res = r.Dispatch(context.Background(), "c3", "panicky", map[string]any{})
	if !res.IsError || !strings.Contains(res.Output, "panicked") {
		t.Errorf("panic not converted: %q", res.Output)
	}
}

func TestSchemas(t *testing.T) {
	r := testRegistry()
	RegisterDateTool(r, nil)

	schemas := r.Schemas()
	if len(schemas) != 4 {
		t.Fatalf("schemas = %d, want 4", len(schemas))
	}
	for _, s := range schemas {
		if s["type"] != "function" {
			t.Errorf("schema type = %v", s["type"])
		}
		fn, ok := s["function"].(map[string]any)
		if !ok || fn["name"] == "" {
			t.Errorf("malformed schema: %v", s)
		}
	}
}

func TestDateTool(t *testing.T) {
	r := NewRegistry(testLogger())
	fixed := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	RegisterDateTool(r, func() time.Time { return fixed })

	out, err := r.Execute(context.Background(), "get_date", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "Friday, August 28, 2026" {
		t.Errorf("date = %q", out)
	}
}

func TestRequiredParamsFromJSONShapes(t *testing.T) {
	// Schemas decoded from JSON carry []any, hand-built ones []string.
	tool := &Tool{Parameters: map[string]any{"required": []any{"a", "b"}}}
	got := requiredParams(tool)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("requiredParams = %v", got)
	}
}
