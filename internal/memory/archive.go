package memory

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// Archive is a SQLite copy of turns that compaction removed from the
// live log. Compacted turns are never lost — they leave the model's
// context but remain searchable through the search_archive tool.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// ArchivedTurn is one archived conversation turn.
type ArchivedTurn struct {
	ID         int64
	Role       string
	Content    string
	ToolName   string
	ArchivedAt time.Time
}

// OpenArchive opens (creating if needed) the archive database at path.
func OpenArchive(path string, logger *slog.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	a := &Archive{db: db, logger: logger}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS archived_turns (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			tool_name   TEXT NOT NULL DEFAULT '',
			archived_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_archived_turns_role
			ON archived_turns(role);
	`)
	return err
}

// Archive inserts the given turns in order. Assistant turns that only
// requested tools (empty content) are skipped; they carry no text worth
// searching.
func (a *Archive) Archive(turns []Turn) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO archived_turns (role, content, tool_name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		if _, err := stmt.Exec(t.Role, t.Content, t.Name); err != nil {
			return fmt.Errorf("insert archived turn: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive: %w", err)
	}

	a.logger.Debug("archived compacted turns", "inserted", inserted, "skipped", len(turns)-inserted)
	return nil
}

// Search returns archived turns whose content matches the query
// (case-insensitive substring), newest first.
func (a *Archive) Search(query string, limit int) ([]ArchivedTurn, error) {
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := a.db.Query(`
		SELECT id, role, content, tool_name, archived_at
		FROM archived_turns
		WHERE LOWER(content) LIKE ?
		ORDER BY id DESC
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}
	defer rows.Close()

	var out []ArchivedTurn
	for rows.Next() {
		var t ArchivedTurn
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &t.ToolName, &t.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan archived turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the total number of archived turns.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM archived_turns`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
