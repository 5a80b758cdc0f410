package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/smoes/workflow-engine-go/procengine"
)

// MySQLStore is a MySQL/MariaDB-backed Store, for production deployments
// with multiple workers sharing persisted instance logs. Grounded on the
// teacher's MySQLStore (graph/store/mysql.go): same connection pool
// sizing and migrate-on-open pattern, narrowed to the single
// instance_events table SQLiteStore also uses.
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore opens a connection pool to dsn (e.g.
// "user:pass@tcp(localhost:3306)/procengine?parseTime=true") and migrates
// its schema.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS instance_events (
			instance_id VARCHAR(191) NOT NULL,
			ordinal INT NOT NULL,
			event_type VARCHAR(191) NOT NULL,
			fields_json JSON NOT NULL,
			PRIMARY KEY (instance_id, ordinal)
		) ENGINE=InnoDB
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveEvents replaces the stored log for instanceID with events, inside a
// single transaction.
func (s *MySQLStore) SaveEvents(ctx context.Context, instanceID string, events []procengine.Event) error {
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
func (s *MySQLStore) LoadEvents(ctx context.Context, instanceID string) ([]procengine.Event, error) {
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
		var eventType string
		var fieldsJSON []byte
		if err := rows.Scan(&eventType, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var fields map[string]any
		if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
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
func (s *MySQLStore) ListInstances(ctx context.Context) ([]string, error) {
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

// Close closes the underlying connection pool. Safe to call more than once.
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *MySQLStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	return s.db.PingContext(ctx)
}
