// Package history keeps an audit log of answered queries and applied
// edits in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded interaction.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "query" or "edit"
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is a SQLite-backed interaction log capped at maxEntries rows.
type Log struct {
	db         *sql.DB
	maxEntries int
}

// Open creates or opens the database at dbPath. maxEntries <= 0 disables
// trimming.
func Open(dbPath string, maxEntries int) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Log{db: db, maxEntries: maxEntries}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	input TEXT,
	output TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_ts ON interactions (ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Record appends one interaction and trims old rows past the cap.
func (l *Log) Record(ctx context.Context, kind, input, output string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO interactions (id, kind, input, output, ts) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), kind, input, output, time.Now().UTC())
	if err != nil {
		tx.Rollback()
		return err
	}

	if l.maxEntries > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM interactions
WHERE id IN (
  SELECT id FROM interactions
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, l.maxEntries)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Recent returns up to limit interactions, oldest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, input, output, ts FROM interactions ORDER BY ts DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Input, &e.Output, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}
