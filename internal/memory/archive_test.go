package memory

import (
	"path/filepath"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := OpenArchive(path, testLogger())
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer a.Close()

	turns := []Turn{
		UserTurn("remind me about the Lisbon trip"),
		AssistantTurn("", []ToolCall{{ID: "1", Name: "get_date"}}), // empty content, skipped
		ToolTurn("1", "get_date", "Monday, March 2, 2026"),
		AssistantTurn("Your Lisbon trip is in March.", nil),
	}
	if err := a.Archive(turns); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	n, err := a.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3 (empty assistant turn skipped)", n)
	}

	hits, err := a.Search("lisbon", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	// Newest first.
	if hits[0].Role != RoleAssistant {
		t.Errorf("first hit role = %s, want assistant (newest first)", hits[0].Role)
	}
}

func TestArchiveSearchNoMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := OpenArchive(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	hits, err := a.Search("nothing here", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d", len(hits))
	}
}
