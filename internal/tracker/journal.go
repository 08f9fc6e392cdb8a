package tracker

import "time"

// Session is one stopped run of a project or sub-activity record.
type Session struct {
	ID               string
	Environment      string
	ProjectAlias     string
	SubActivityAlias string // empty for the project's general time
	Date             string
	StartedAt        time.Time
	StoppedAt        time.Time
	Seconds          int64
}

// Journal keeps an append-only history of stopped sessions.
type Journal interface {
	// RecordSession appends a session.
	RecordSession(session *Session) error

	// ListSessions returns up to limit sessions, newest first.
	ListSessions(limit int) ([]*Session, error)

	// Close releases the journal's resources.
	Close() error
}
