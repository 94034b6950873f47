// Package session owns sign-in state: it persists sessions locally, restores
// them on launch, and refreshes expired access tokens. Everything behind the
// auth gate asks the Manager whether a user is signed in.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/remote"
)

// Manager coordinates the remote auth endpoints with the local state DB.
type Manager struct {
	client *remote.Client
	state  *StateDB
	log    *slog.Logger
}

// NewManager wires a manager over the given client and state store.
func NewManager(client *remote.Client, state *StateDB, log *slog.Logger) *Manager {
	return &Manager{client: client, state: state, log: log}
}

// SignedIn reports whether a usable session is active.
func (m *Manager) SignedIn() bool { return m.client.UserID() != "" }

// UserEmail returns the signed-in user's email, or "" when signed out.
func (m *Manager) UserEmail() string {
	if s := m.client.CurrentSession(); s != nil {
		return s.User.Email
	}
	return ""
}

// Restore loads a persisted session, refreshing it when expired. It returns
// true when a session is active afterwards. A failed refresh clears the
// stored session and reports signed-out rather than erroring, so a stale
// token degrades to the sign-in screen instead of blocking launch.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	sess, err := m.state.Load()
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}

	if sess.Expired(time.Now()) {
		refreshed, err := m.client.RefreshSession(ctx, sess.RefreshToken)
		if err != nil {
			m.log.Warn("session refresh failed, signing out", "error", err)
			if err := m.state.Clear(); err != nil {
				return false, err
			}
			return false, nil
		}
		sess = refreshed
		if err := m.state.Save(sess); err != nil {
			return false, err
		}
	}

	m.client.UseSession(sess)
	m.log.Info("session restored", "user", sess.User.Email)
	return true, nil
}

// SignIn authenticates with email and password and persists the session.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	m.client.UseSession(sess)
	if err := m.state.Save(sess); err != nil {
		return fmt.Errorf("sign in succeeded but session not saved: %w", err)
	}
	return nil
}

// SignUp registers a new account. When the service issues a session
// immediately it is activated and persisted; otherwise the caller shows the
// confirmation-pending message and the user signs in after confirming.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*remote.SignUpResult, error) {
	res, err := m.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.Session != nil {
		m.client.UseSession(res.Session)
		if err := m.state.Save(res.Session); err != nil {
			return nil, fmt.Errorf("sign up succeeded but session not saved: %w", err)
		}
	}
	return res, nil
}

// SignOut drops the active session locally.
func (m *Manager) SignOut() error {
	m.client.UseSession(nil)
	return m.state.Clear()
}

// RecoverPassword asks the service to send a reset email.
func (m *Manager) RecoverPassword(ctx context.Context, email string) error {
	return m.client.RecoverPassword(ctx, email)
}

// CompleteRecovery finishes the emailed reset flow: the recovery token from
// the link authenticates the password change, then the previous session
// state is restored so the user signs in normally.
func (m *Manager) CompleteRecovery(ctx context.Context, recoveryToken, newPassword string) error {
	prev := m.client.CurrentSession()
	m.client.UseSession(&remote.Session{AccessToken: recoveryToken})
	defer m.client.UseSession(prev)
	return m.client.UpdatePassword(ctx, newPassword)
}

// UpdatePassword sets a new password for the signed-in user.
func (m *Manager) UpdatePassword(ctx context.Context, newPassword string) error {
	return m.client.UpdatePassword(ctx, newPassword)
}
