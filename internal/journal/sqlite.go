// Package journal keeps the append-only history of stopped timer sessions
// in SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"ticktock/internal/journal/migrations"
	"ticktock/internal/tracker"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteJournal implements the Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path and applies pending
// migrations. path can be a file path or ":memory:" for an in-memory journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// A single connection keeps ":memory:" journals on one database and
	// serializes writers on file journals.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Path returns the journal location.
func (j *SQLiteJournal) Path() string {
	return j.path
}

// RecordSession appends a session.
func (j *SQLiteJournal) RecordSession(s *tracker.Session) error {
	_, err := j.db.Exec(`
		INSERT INTO sessions (id, environment, project_alias, sub_activity_alias, day, started_at, stopped_at, seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Environment, s.ProjectAlias, s.SubActivityAlias, s.Date,
		s.StartedAt.UTC().Format(timeLayout), s.StoppedAt.UTC().Format(timeLayout), s.Seconds,
	)
	if err != nil {
		return fmt.Errorf("recording session %s: %w", s.ID, err)
	}
	return nil
}

// ListSessions returns up to limit sessions, most recently stopped first.
// A limit below one returns every session.
func (j *SQLiteJournal) ListSessions(limit int) ([]*tracker.Session, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := j.db.Query(`
		SELECT id, environment, project_alias, sub_activity_alias, day, started_at, stopped_at, seconds
		FROM sessions
		ORDER BY stopped_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*tracker.Session
	for rows.Next() {
		var s tracker.Session
		var started, stopped string
		if err := rows.Scan(&s.ID, &s.Environment, &s.ProjectAlias, &s.SubActivityAlias, &s.Date, &started, &stopped, &s.Seconds); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if s.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("session %s: bad started_at: %w", s.ID, err)
		}
		if s.StoppedAt, err = time.Parse(timeLayout, stopped); err != nil {
			return nil, fmt.Errorf("session %s: bad stopped_at: %w", s.ID, err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Compile-time check that SQLiteJournal implements tracker.Journal interface
var _ tracker.Journal = (*SQLiteJournal)(nil)
