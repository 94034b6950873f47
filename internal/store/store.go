// Package store provides typed access to the five persisted entities on top
// of the generic remote client. It owns date normalization: workout lookups
// and inserts always use midnight-UTC timestamps, so date equality matches
// regardless of the local timezone a date was picked in.
package store

import (
	"time"

	"github.com/claude/liftlog/internal/remote"
)

// Store wraps a remote client with entity-level operations.
type Store struct {
	c *remote.Client
}

// New creates a Store over the given client.
func New(c *remote.Client) *Store {
	return &Store{c: c}
}

// UserID returns the signed-in user's ID, or "" when signed out.
func (s *Store) UserID() string { return s.c.UserID() }

// MidnightUTC normalizes a timestamp to midnight UTC of its calendar day.
func MidnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateKey is the wire representation used for scheduled_date equality.
func dateKey(t time.Time) string {
	return MidnightUTC(t).Format(time.RFC3339)
}
