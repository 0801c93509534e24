// Package journal provides an optional SQLite-backed history of
// organizer runs. The organizer never consults it to make decisions;
// it exists so `raido history` can answer "what did the tool do and
// when" after the fact.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT '',
	summary     TEXT NOT NULL DEFAULT '{}',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Run is one recorded organizer operation.
type Run struct {
	ID         int64
	Kind       string // "plan", "execute", "rollback"
	Status     string
	Summary    string // JSON document
	StartedAt  time.Time
	FinishedAt time.Time
}

// Record inserts one run. The summary is marshalled to JSON.
func (db *DB) Record(kind, status string, summary any, started, finished time.Time) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("journal: marshal summary: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO runs (kind, status, summary, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`, kind, status, string(data), started.UTC(), finished.UTC())
	if err != nil {
		return fmt.Errorf("journal: insert run: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (db *DB) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, kind, status, summary, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Summary, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
