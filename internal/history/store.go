// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     history
// Description: Dictation history storage, SQLite and in-memory
// Author:      Kiran Shivaraju
// Created:     2026-07-16
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Status records how a dictation pass ended
type Status string

const (
	StatusOK     Status = "OK"
	StatusFailed Status = "FAILED"
)

// Entry represents one executed dictation
type Entry struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Transcript string        `json:"transcript"`
	Segments   int           `json:"segments"`
	Commands   int           `json:"commands"`
	Duration   time.Duration `json:"duration"`
	Status     Status        `json:"status"`
	Error      string        `json:"error,omitempty"`
}

// Filter defines criteria for querying history
type Filter struct {
	Status    Status
	StartTime time.Time
	EndTime   time.Time
	Search    string
	Limit     int
	Offset    int
}

// Store defines the interface for dictation history persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Maintenance
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Vacuum(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore creates a new SQLite-based history store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dictations (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		transcript TEXT NOT NULL,
		segments INTEGER NOT NULL,
		commands INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_dictations_timestamp ON dictations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_dictations_status ON dictations(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a new history entry
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Status == "" {
		entry.Status = StatusOK
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dictations (id, timestamp, transcript, segments, commands, duration_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.Transcript, entry.Segments, entry.Commands,
		entry.Duration.Milliseconds(), entry.Status, entry.Error)

	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Get retrieves a single entry by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, transcript, segments, commands, duration_ms, status, error
		FROM dictations WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return entry, nil
}

// Query retrieves entries based on filter criteria, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, transcript, segments, commands, duration_ms, status, error FROM dictations WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if !filter.StartTime.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndTime)
	}
	if filter.Search != "" {
		query += " AND transcript LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite rejects OFFSET without LIMIT; -1 means unbounded.
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// scanner matches sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var durationMs int64
	var errMsg sql.NullString

	if err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Transcript, &entry.Segments,
		&entry.Commands, &durationMs, &entry.Status, &errMsg); err != nil {
		return nil, err
	}

	entry.Duration = time.Duration(durationMs) * time.Millisecond
	if errMsg.Valid {
		entry.Error = errMsg.String
	}
	return &entry, nil
}

// Stats returns history statistics
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, failed int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictations`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictations WHERE status = ?`, StatusFailed).Scan(&failed); err != nil {
		return nil, fmt.Errorf("failed to count failures: %w", err)
	}

	var lastTime sql.NullTime
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM dictations`).Scan(&lastTime); err != nil {
		return nil, fmt.Errorf("failed to read last entry time: %w", err)
	}

	stats := map[string]interface{}{
		"total_entries":  total,
		"failed_entries": failed,
	}
	if lastTime.Valid {
		stats["last_entry"] = lastTime.Time
	}
	return stats, nil
}

// Prune removes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM dictations WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// Vacuum reclaims space after pruning
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore implements Store in memory, for tests and for running with
// persistence disabled
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates a new in-memory history store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make([]*Entry, 0),
	}
}

// Record stores a new history entry
func (s *MemoryStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Status == "" {
		entry.Status = StatusOK
	}

	s.entries = append(s.entries, entry)
	return nil
}

// Get retrieves a single entry by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("history entry not found: %s", id)
}

// Query retrieves entries based on filter criteria, newest first
func (s *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		if !filter.StartTime.IsZero() && entry.Timestamp.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && entry.Timestamp.After(filter.EndTime) {
			continue
		}
		if filter.Search != "" && !strings.Contains(entry.Transcript, filter.Search) {
			continue
		}
		results = append(results, entry)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}

	return results, nil
}

// Stats returns history statistics
func (s *MemoryStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var failed int64
	var last time.Time
	for _, entry := range s.entries {
		if entry.Status == StatusFailed {
			failed++
		}
		if entry.Timestamp.After(last) {
			last = entry.Timestamp
		}
	}

	stats := map[string]interface{}{
		"total_entries":  int64(len(s.entries)),
		"failed_entries": failed,
	}
	if !last.IsZero() {
		stats["last_entry"] = last
	}
	return stats, nil
}

// Prune removes entries older than the given age
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted int64

	kept := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		} else {
			deleted++
		}
	}
	s.entries = kept

	return deleted, nil
}

// Vacuum is a no-op for the memory store
func (s *MemoryStore) Vacuum(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
