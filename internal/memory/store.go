package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CorruptStoreError reports a persisted log that cannot be parsed as a
// well-formed turn sequence. The caller decides whether to reset or
// abort; the store never repairs interior corruption on its own.
type CorruptStoreError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("conversation store %s is corrupt: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CorruptStoreError) Unwrap() error { return e.Err }

// Store is the durable, ordered conversation log. It owns the file on
// disk exclusively; callers read through Turns and mutate only through
// Append, Replace, and Clear. Every mutation is persisted before it
// returns, using a temp-file-then-rename write so a crash mid-write
// cannot leave a half-written log.
type Store struct {
	path         string
	systemPrompt string
	logger       *slog.Logger

	turns []Turn
}

// Open loads the persisted log at path, creating and persisting a fresh
// log containing only the system turn when no file exists. A trailing
// group of tool turns with no matching assistant call (an incomplete
// prior session) is dropped with a warning; anything else unparseable
// returns a *CorruptStoreError.
func Open(path, systemPrompt string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:         path,
		systemPrompt: systemPrompt,
		logger:       logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.turns = []Turn{SystemTurn(systemPrompt)}
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation store: %w", err)
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, &CorruptStoreError{Path: path, Err: err}
	}
	for i, t := range turns {
		if err := t.Validate(); err != nil {
			return nil, &CorruptStoreError{Path: path, Err: fmt.Errorf("turn %d: %w", i, err)}
		}
	}

	trimmed, dropped := trimDangling(turns)
	if dropped > 0 {
		logger.Warn("dropped dangling tool turns from incomplete session",
			"path", path,
			"dropped", dropped,
		)
		turns = trimmed
	}

	seeded := false
	if len(turns) == 0 {
		turns = []Turn{SystemTurn(systemPrompt)}
		seeded = true
	}
	s.turns = turns

	if dropped > 0 || seeded {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Turns returns a copy of the current log. The agent loop borrows this
// read view; it never holds a competing copy it mutates independently.
func (s *Store) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the log.
func (s *Store) Len() int { return len(s.turns) }

// Append adds one turn to the end of the log and persists it. Returns
// the serialized size in bytes of the updated log.
func (s *Store) Append(t Turn) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("append: %w", err)
	}
	s.turns = append(s.turns, t)
	if err := s.persist(); err != nil {
		// Roll back the in-memory append so memory and disk agree.
		s.turns = s.turns[:len(s.turns)-1]
		return 0, err
	}
	return s.SizeBytes(), nil
}

// Replace atomically swaps the entire log, in memory and on disk. Used
// by the compaction policy.
func (s *Store) Replace(turns []Turn) error {
	for i, t := range turns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("replace: turn %d: %w", i, err)
		}
	}
	old := s.turns
	s.turns = make([]Turn, len(turns))
	copy(s.turns, turns)
	if err := s.persist(); err != nil {
		s.turns = old
		return err
	}
	return nil
}

// SizeBytes returns the serialized size of the log without persisting.
func (s *Store) SizeBytes() int {
	return SerializedSize(s.turns)
}

// Clear resets the log to only the system turn.
func (s *Store) Clear() error {
	return s.Replace([]Turn{SystemTurn(s.systemPrompt)})
}

// persist writes the full log to a temporary file in the same directory
// and renames it into place. Rename is atomic on POSIX filesystems, so
// readers observe either the old or the new log, never a torn write.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.turns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal conversation log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp log: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}
