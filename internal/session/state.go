package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/remote"
)

// StateDB persists the current auth session across restarts so the user is
// not asked to sign in every launch.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	// Single-row table: id is pinned to 1 so saves always replace.
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		access_token  TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_in    INTEGER NOT NULL,
		user_id       TEXT NOT NULL,
		user_email    TEXT NOT NULL,
		issued_at     TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Save stores the session, replacing any previous one.
func (s *StateDB) Save(sess *remote.Session) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO session (id, access_token, refresh_token, expires_in, user_id, user_email, issued_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)`,
		sess.AccessToken, sess.RefreshToken, sess.ExpiresIn,
		sess.User.ID, sess.User.Email, sess.IssuedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load reads the stored session, or (nil, nil) when none is stored.
func (s *StateDB) Load() (*remote.Session, error) {
	var sess remote.Session
	var issuedAt string
	err := s.db.QueryRow(
		`SELECT access_token, refresh_token, expires_in, user_id, user_email, issued_at FROM session WHERE id = 1`,
	).Scan(&sess.AccessToken, &sess.RefreshToken, &sess.ExpiresIn,
		&sess.User.ID, &sess.User.Email, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	sess.IssuedAt, err = time.Parse(time.RFC3339, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("loading session: bad issued_at: %w", err)
	}
	return &sess, nil
}

// Clear removes the stored session.
func (s *StateDB) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
