package store

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/remote"
)

// GetProfile reads the signed-in user's profile row.
func (s *Store) GetProfile(ctx context.Context) (*models.Profile, error) {
	uid := s.c.UserID()
	if uid == "" {
		return nil, remote.ErrNoSession
	}

	var rows []models.Profile
	err := s.c.From("profiles").
		Select("id, username, default_units").
		Eq("id", uid).
		Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("loading profile: no row for user %s", uid)
	}
	return &rows[0], nil
}

// UpdateProfile writes the username and default units of the signed-in user.
func (s *Store) UpdateProfile(ctx context.Context, username, defaultUnits string) error {
	uid := s.c.UserID()
	if uid == "" {
		return remote.ErrNoSession
	}

	patch := map[string]string{"username": username, "default_units": defaultUnits}
	if err := s.c.From("profiles").Eq("id", uid).Update(ctx, patch); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}
