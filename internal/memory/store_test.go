package memory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	s, err := Open(path, "You are a test assistant.", testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	turns := s.Turns()
	if len(turns) != 1 {
		t.Fatalf("fresh store has %d turns, want 1", len(turns))
	}
	if turns[0].Role != RoleSystem || turns[0].Content != "You are a test assistant." {
		t.Errorf("system turn = %+v", turns[0])
	}

	// The seeded log is on disk immediately, not just in memory.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fresh store not persisted: %v", err)
	}
	reopened, err := Open(path, "ignored on reopen", testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Turns()[0].Content; got != "You are a test assistant." {
		t.Errorf("reopened system turn = %q", got)
	}
}

func TestAppendAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	seq := []Turn{
		UserTurn("what's today's date?"),
		AssistantTurn("", []ToolCall{{ID: "c1", Name: "get_date", Arguments: map[string]any{}}}),
		ToolTurn("c1", "get_date", "Friday, August 28, 2026"),
		AssistantTurn("Today is Friday, August 28, 2026.", nil),
	}
	for _, turn := range seq {
		if _, err := s.Append(turn); err != nil {
			t.Fatalf("Append(%s): %v", turn.Role, err)
		}
	}

	// Reopen and compare.
	s2, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := s2.Turns()
	want := s.Turns()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d turns, want %d", len(got), len(want))
	}
	for i := range want {
		a, _ := json.Marshal(want[i])
		b, _ := json.Marshal(got[i])
		if string(a) != string(b) {
			t.Errorf("turn %d: %s != %s", i, a, b)
		}
	}
}

func TestAppendReturnsSerializedSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	size, err := s.Append(UserTurn("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if size != s.SizeBytes() {
		t.Errorf("Append returned %d, SizeBytes = %d", size, s.SizeBytes())
	}
	if size <= 0 {
		t.Errorf("size = %d", size)
	}
}

func TestAppendRejectsInvalidTurn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Append(Turn{Role: "narrator", Content: "meanwhile"}); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := s.Append(Turn{Role: RoleTool, Content: "out"}); err == nil {
		t.Error("expected error for tool turn without correlation id")
	}
	if s.Len() != 1 {
		t.Errorf("failed appends must not grow the log: len = %d", s.Len())
	}
}

func TestOpenCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, "sys", testLogger())
	if err == nil {
		t.Fatal("expected error for corrupt store")
	}
	var corrupt *CorruptStoreError
	if !errors.As(err, &corrupt) {
		t.Errorf("error type = %T, want *CorruptStoreError", err)
	}
}

func TestOpenDropsDanglingToolTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	// A log whose tail is a tool turn answering a call nobody made —
	// the footprint of a crash between appends in a prior session.
	turns := []Turn{
		SystemTurn("sys"),
		UserTurn("hi"),
		AssistantTurn("hello", nil),
		ToolTurn("ghost-call", "get_date", "output"),
	}
	data, err := json.Marshal(turns)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3 (dangling tool turn dropped)", s.Len())
	}
	for _, turn := range s.Turns() {
		if turn.Role == RoleTool {
			t.Error("dangling tool turn survived load")
		}
	}

	// The trim must also be persisted.
	s2, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s2.Len() != 3 {
		t.Errorf("reloaded len = %d, want 3", s2.Len())
	}
}

func TestOpenKeepsMatchedToolTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	turns := []Turn{
		SystemTurn("sys"),
		UserTurn("date?"),
		AssistantTurn("", []ToolCall{{ID: "c9", Name: "get_date"}}),
		ToolTurn("c9", "get_date", "today"),
	}
	data, _ := json.Marshal(turns)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Errorf("len = %d, want 4 (matched tool turn kept)", s.Len())
	}
}

func TestReplaceAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(UserTurn("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(AssistantTurn("b", nil)); err != nil {
		t.Fatal(err)
	}

	replacement := []Turn{SystemTurn("sys"), SystemTurn("[Conversation summary]\nstuff"), UserTurn("c")}
	if err := s.Replace(replacement); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("len after replace = %d", s.Len())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	turns := s.Turns()
	if len(turns) != 1 || turns[0].Role != RoleSystem || turns[0].Content != "sys" {
		t.Errorf("after clear: %+v", turns)
	}

	// Clear persists too.
	s2, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s2.Len() != 1 {
		t.Errorf("reloaded len after clear = %d", s2.Len())
	}
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.json")
	s, err := Open(path, "sys", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(UserTurn("hello")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "memory.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v", names)
	}
}
