// Package history persists the lines a shell session accepts, in a
// SQLite database shared by all sessions of one user.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS history_lines (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	frame TEXT NOT NULL,
	line TEXT NOT NULL,
	entered_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_entered_at ON history_lines(entered_at);
`

// Entry is one accepted input line.
type Entry struct {
	SessionID string
	Frame     string
	Line      string
	EnteredAt time.Time
}

// Store wraps a SQLite database connection for history storage.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a Store at the given database path, creating the parent
// directory and schema as needed.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewWithDB creates a Store from an existing database connection.
// Useful for testing with pre-configured databases.
func NewWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append records one accepted line for a session and frame path.
func (s *Store) Append(sessionID, frame, line string) error {
	_, err := s.db.Exec(
		`INSERT INTO history_lines (session_id, frame, line, entered_at)
		 VALUES (?, ?, ?, ?)`,
		sessionID, frame, line, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT session_id, frame, line, entered_at
		 FROM history_lines ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.SessionID, &e.Frame, &e.Line, &at); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.EnteredAt, _ = time.Parse(time.RFC3339, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// setDBPermissions sets restrictive file permissions on the database and
// its WAL/SHM files.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}
