// Package store provides the sqlite-backed event store the pipeline
// writes into. The event table is replaced wholesale on every accepted
// sync; sealed session summaries are kept in sync_runs for audit.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/models"
	"github.com/venuelog/sheetsync/internal/uuid"
)

// Store wraps the sql.DB holding events and sync run summaries.
type Store struct {
	db *sql.DB
}

// Open opens the sqlite database under dataDir with:
// - WAL mode for concurrent reads
// - foreign key constraints enabled
// - a single writer connection, as sqlite requires
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "creating data directory", err)
	}

	dbPath := filepath.Join(dataDir, "sheetsync.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "opening database", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "enabling WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "enabling foreign keys", err)
	}

	return New(db)
}

// New wraps an existing connection and applies the schema. Tests use this
// with an in-memory database.
func New(db *sql.DB) (*Store, error) {
	// Single writer connection; also keeps :memory: databases on one conn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate applies the schema idempotently.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		room TEXT NOT NULL DEFAULT '',
		promoter TEXT NOT NULL DEFAULT '',
		capacity TEXT NOT NULL DEFAULT '',
		source_line INTEGER NOT NULL,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);

	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		total_events INTEGER NOT NULL,
		processed_events INTEGER NOT NULL,
		success_rate REAL NOT NULL,
		error_count INTEGER NOT NULL,
		valid INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(errors.ErrDatabase, "applying schema", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceAll performs the full-replace write: delete every event, then
// insert the new set, in a single transaction. Identities and creation
// timestamps are assigned here.
func (s *Store) ReplaceAll(events []models.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "starting replace transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return errors.Wrap(errors.ErrDatabase, "clearing events", err)
	}

	insert := `
	INSERT INTO events (id, date, title, status, room, promoter, capacity, source_line, is_recurring, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().Unix()
	for i := range events {
		events[i].ID = models.UUID(uuid.New())
		events[i].CreatedAt = now
		e := &events[i]
		if _, err := tx.Exec(insert, e.ID, e.Date, e.Title, e.Status, e.Room,
			e.Promoter, e.Capacity, e.SourceLine, e.IsRecurring, e.CreatedAt); err != nil {
			return errors.Wrap(errors.ErrDatabase, fmt.Sprintf("inserting event %q", e.Title), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrDatabase, "committing replace transaction", err)
	}
	return nil
}

// ListEvents returns all stored events ordered by date, then sheet order.
func (s *Store) ListEvents() ([]models.Event, error) {
	rows, err := s.db.Query(`
	SELECT id, date, title, status, room, promoter, capacity, source_line, is_recurring, created_at
	FROM events ORDER BY date, source_line`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "listing events", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Status, &e.Room,
			&e.Promoter, &e.Capacity, &e.SourceLine, &e.IsRecurring, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "scanning event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveRun persists one sealed session summary.
func (s *Store) SaveRun(run *models.SyncRun) error {
	if run.ID == "" {
		run.ID = models.UUID(uuid.New())
	}
	_, err := s.db.Exec(`
	INSERT INTO sync_runs (id, started_at, ended_at, total_events, processed_events, success_rate, error_count, valid)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.EndedAt, run.TotalEvents, run.ProcessedEvents,
		run.SuccessRate, run.ErrorCount, run.Valid)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "saving sync run", err)
	}
	return nil
}

// ListRuns returns the most recent sync runs, newest first.
func (s *Store) ListRuns(limit int) ([]models.SyncRun, error) {
	rows, err := s.db.Query(`
	SELECT id, started_at, ended_at, total_events, processed_events, success_rate, error_count, valid
	FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "listing sync runs", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var r models.SyncRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.EndedAt, &r.TotalEvents,
			&r.ProcessedEvents, &r.SuccessRate, &r.ErrorCount, &r.Valid); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "scanning sync run", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
