package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// User identifies the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an issued auth session. ExpiresIn is seconds from issuance;
// IssuedAt is recorded client-side so expiry can be checked after a restart.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         User      `json:"user"`
	IssuedAt     time.Time `json:"-"`
}

// Expired reports whether the access token is past (or within a minute of)
// its expiry.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresIn == 0 {
		return false
	}
	return now.After(s.IssuedAt.Add(time.Duration(s.ExpiresIn)*time.Second - time.Minute))
}

// SignUpResult distinguishes an immediately-usable session from a signup
// that is pending email confirmation.
type SignUpResult struct {
	Session              *Session
	ConfirmationRequired bool
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account. When the service requires email
// confirmation it returns a user without a session; the result reflects that.
func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}

	// A direct session has an access_token at the top level; a
	// confirmation-pending signup returns just the user object.
	var probe struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("signing up: decode response: %w", err)
	}
	if probe.AccessToken == "" {
		return &SignUpResult{ConfirmationRequired: true}, nil
	}

	s, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return &SignUpResult{Session: s}, nil
}

// SignIn exchanges email/password credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	params := url.Values{"grant_type": {"password"}}
	body, err := c.do(ctx, http.MethodPost, "/auth/v1/token", params, credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	s, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return s, nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	params := url.Values{"grant_type": {"refresh_token"}}
	payload := map[string]string{"refresh_token": refreshToken}
	body, err := c.do(ctx, http.MethodPost, "/auth/v1/token", params, payload)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	s, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return s, nil
}

// RecoverPassword asks the service to email a password-reset link. The link
// re-enters the app through a deep link (see internal/deeplink).
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	if _, err := c.do(ctx, http.MethodPost, "/auth/v1/recover", nil, payload); err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password for the signed-in user.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	if c.CurrentSession() == nil {
		return ErrNoSession
	}
	payload := map[string]string{"password": newPassword}
	if _, err := c.do(ctx, http.MethodPut, "/auth/v1/user", nil, payload); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func decodeSession(body []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, fmt.Errorf("decode session: response has no access token")
	}
	s.IssuedAt = time.Now()
	return &s, nil
}
