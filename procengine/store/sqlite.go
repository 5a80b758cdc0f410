package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/smoes/workflow-engine-go/procengine"
)

// SQLiteStore is a SQLite-backed Store, for local persistence with zero
// external setup. Grounded on the teacher's SQLiteStore
// (graph/store/sqlite.go): same WAL-mode, single-writer connection setup
// and auto-migrated schema, narrowed to one table of (instance_id,
// ordinal, event_type, fields_json).
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewSQLiteStore opens (creating if absent) a SQLite database at path —
// ":memory:" for a throwaway in-process database — enables WAL mode, and
// migrates its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS instance_events (
			instance_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			fields_json TEXT NOT NULL,
			PRIMARY KEY (instance_id, ordinal)
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_instance_events_instance ON instance_events(instance_id)")
	return err
}

// SaveEvents replaces the stored log for instanceID with events, inside a
// single transaction.
func (s *SQLiteStore) SaveEvents(ctx context.Context, instanceID string, events []procengine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM instance_events WHERE instance_id = ?", instanceID); err != nil {
		return fmt.Errorf("clear prior log: %w", err)
	}

	for i, e := range events {
		fieldsJSON, err := json.Marshal(e.Fields)
		if err != nil {
			return fmt.Errorf("marshal event %d fields: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO instance_events (instance_id, ordinal, event_type, fields_json) VALUES (?, ?, ?, ?)",
			instanceID, i, e.Type, string(fieldsJSON)); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadEvents returns the stored log for instanceID, ordered by ordinal.
func (s *SQLiteStore) LoadEvents(ctx context.Context, instanceID string) ([]procengine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT event_type, fields_json FROM instance_events WHERE instance_id = ? ORDER BY ordinal ASC", instanceID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []procengine.Event
	for rows.Next() {
		var eventType, fieldsJSON string
		if err := rows.Scan(&eventType, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
			return nil, fmt.Errorf("unmarshal event fields: %w", err)
		}
		events = append(events, procengine.Event{Type: eventType, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	if events == nil {
		return nil, ErrNotFound
	}
	return events, nil
}

// ListInstances returns every distinct instance id with a stored log.
func (s *SQLiteStore) ListInstances(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT instance_id FROM instance_events")
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan instance id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database connection. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	return s.db.PingContext(ctx)
}

// Path returns the database file path this store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}
