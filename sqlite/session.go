package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fwojciec/serpwall"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ serpwall.SessionStore = (*SessionStore)(nil)

// SessionStore implements serpwall.SessionStore using SQLite. Values are
// scoped to one session row; ending the session deletes them.
type SessionStore struct {
	db        *DB
	id        string
	startedAt time.Time
}

// NewSessionStore starts a new session with a generated ID.
func NewSessionStore(ctx context.Context, db *DB) (*SessionStore, error) {
	s := &SessionStore{
		db:        db,
		id:        uuid.New().String(),
		startedAt: time.Now().UTC(),
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at)
		VALUES (?, ?)
	`, s.id, s.startedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return s, nil
}

// ResumeSessionStore reopens an existing session.
// Returns ENOTFOUND if the session has ended or never existed.
func ResumeSessionStore(ctx context.Context, db *DB, id string) (*SessionStore, error) {
	var startedAt string
	err := db.QueryRowContext(ctx, `
		SELECT started_at FROM sessions WHERE id = ?
	`, id).Scan(&startedAt)
	if err == sql.ErrNoRows {
		return nil, serpwall.Errorf(serpwall.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	return &SessionStore{db: db, id: id, startedAt: t}, nil
}

// ID returns the session identifier.
func (s *SessionStore) ID() string {
	return s.id
}

// Get returns the value stored under key in this session.
func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_values
		WHERE session_id = ? AND key = ?
	`, s.id, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", serpwall.Errorf(serpwall.ENOTFOUND, "key %q not set", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
// Returns ENOTFOUND if the session has ended.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return serpwall.Errorf(serpwall.EINVALID, "key required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at)
		SELECT ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM sessions WHERE id = ?)
		ON CONFLICT (session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.id, key, value, time.Now().UTC().Format(time.RFC3339), s.id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return serpwall.Errorf(serpwall.ENOTFOUND, "session ended")
	}
	return nil
}

// End deletes the session and every value stored in it.
func (s *SessionStore) End(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, s.id)
	return err
}

// PurgeSessions deletes sessions started before cutoff and returns how many
// were removed.
func (db *DB) PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM sessions WHERE started_at < ?
	`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
