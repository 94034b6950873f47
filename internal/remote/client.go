// Package remote is a generic client for the hosted data service: a
// GoTrue-style auth API plus a PostgREST-style table API with equality/range
// filtering and ordering. The rest of the app talks to it through
// internal/store; nothing above this package builds URLs or headers.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNoSession is returned when an operation requiring authentication is
// attempted while signed out.
var ErrNoSession = errors.New("remote: no active session")

// APIError is a non-2xx response from the data service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: service returned %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the data service. It is safe for concurrent use; the
// session token is the only mutable state.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client

	mu      sync.RWMutex
	session *Session
}

// NewClient creates a client targeting the given base URL with the given
// anonymous API key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// UseSession installs the session whose access token authenticates
// subsequent requests. Passing nil reverts to anonymous access.
func (c *Client) UseSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// CurrentSession returns the installed session, or nil when signed out.
func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// UserID returns the signed-in user's ID, or "" when signed out.
func (c *Client) UserID() string {
	s := c.CurrentSession()
	if s == nil {
		return ""
	}
	return s.User.ID
}

// do issues a request and returns the response body. Non-2xx statuses are
// returned as *APIError with the service's message extracted when possible.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("remote: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := c.CurrentSession(); s != nil {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if method == http.MethodPost && strings.HasPrefix(path, "/rest/") {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serviceMessage(respBody)}
	}

	return respBody, nil
}

// serviceMessage extracts a human-readable message from an error body. The
// auth and table APIs use different field names.
func serviceMessage(body []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.ErrorDescription} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(body))
}
