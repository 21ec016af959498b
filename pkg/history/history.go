// Package history records analysis runs in a local SQLite database so past
// learn/analyze results can be reviewed with `claude-tune history`.
package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const dbFileName = "tune.db"

// Run is one recorded analysis invocation
type Run struct {
	RunID             string
	Command           string // "learn" | "analyze" | "init"
	Timestamp         time.Time
	ConversationCount int
	SuggestionCount   int
	AppliedCount      int
	SkippedLines      int
}

// Store wraps the SQLite database connection
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the run-history database under the given state
// directory (normally ~/.claude-tune).
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, dbFileName)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		conn: conn,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// initSchema creates tables if they don't exist
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		conversation_count INTEGER NOT NULL,
		suggestion_count INTEGER NOT NULL,
		applied_count INTEGER NOT NULL,
		skipped_lines INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// RecordRun stores one analysis run and returns its generated ID
func (s *Store) RecordRun(run Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	insertSQL := `
		INSERT INTO runs (run_id, command, timestamp, conversation_count, suggestion_count, applied_count, skipped_lines)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.conn.Exec(insertSQL,
		run.RunID,
		run.Command,
		run.Timestamp,
		run.ConversationCount,
		run.SuggestionCount,
		run.AppliedCount,
		run.SkippedLines,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return run.RunID, nil
}

// RecentRuns returns the N most recent runs, newest first
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, command, timestamp, conversation_count, suggestion_count, applied_count, skipped_lines
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.RunID,
			&r.Command,
			&r.Timestamp,
			&r.ConversationCount,
			&r.SuggestionCount,
			&r.AppliedCount,
			&r.SkippedLines,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// RunCount returns the total number of recorded runs
func (s *Store) RunCount() (int, error) {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}
