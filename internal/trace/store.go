package trace

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for invocation records.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// GlobalDBPath returns the path to the global Ponder trace database.
func GlobalDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "ponder", "trace.db")
}

// ProjectDBPath returns the path to the project-local trace database.
func ProjectDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".ponder", "trace.db")
}

// NewStore opens (and if needed initializes) a trace database at the given
// path. It creates the parent directories if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{
		db:     conn,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates the invocations table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt_preview TEXT,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);
	CREATE INDEX IF NOT EXISTS idx_invocations_operation ON invocations(operation);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Record implements Recorder. Storage failures are logged, not surfaced;
// diagnostics must never fail a reasoning call.
func (s *Store) Record(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO invocations (id, operation, model, prompt_preview, input_tokens, output_tokens, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Operation, rec.Model, rec.PromptPreview,
		rec.InputTokens, rec.OutputTokens, rec.Latency.Milliseconds(),
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		log.Printf("[trace] record %s: %v", rec.Operation, err)
	}
}

// Recent returns the most recent records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, operation, model, prompt_preview, input_tokens, output_tokens, latency_ms, created_at
		FROM invocations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var latencyMs int64
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Operation, &rec.Model, &rec.PromptPreview,
			&rec.InputTokens, &rec.OutputTokens, &latencyMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		rec.Latency = time.Duration(latencyMs) * time.Millisecond
		if t, err := parseTime(createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PruneOlderThan deletes records older than the given age and returns how
// many were removed.
func (s *Store) PruneOlderThan(age time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-age))
	result, err := s.db.Exec(`DELETE FROM invocations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	return result.RowsAffected()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
