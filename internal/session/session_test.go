package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/remote"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestState(t *testing.T) *StateDB {
	t.Helper()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

func TestStateRoundTrip(t *testing.T) {
	state := openTestState(t)

	if sess, err := state.Load(); err != nil || sess != nil {
		t.Fatalf("Load on empty db = (%v, %v), want (nil, nil)", sess, err)
	}

	issued := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	in := &remote.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
		User:         remote.User{ID: "user-1", Email: "ada@example.com"},
		IssuedAt:     issued,
	}
	if err := state.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := state.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.AccessToken != in.AccessToken || out.RefreshToken != in.RefreshToken {
		t.Errorf("tokens changed in round trip: %+v", out)
	}
	if out.User != in.User {
		t.Errorf("user changed in round trip: %+v", out.User)
	}
	if !out.IssuedAt.Equal(issued) {
		t.Errorf("issued_at = %v, want %v", out.IssuedAt, issued)
	}
}

func TestStateSaveReplaces(t *testing.T) {
	state := openTestState(t)

	for _, token := range []string{"first", "second"} {
		err := state.Save(&remote.Session{
			AccessToken: token, RefreshToken: "r", ExpiresIn: 3600,
			User: remote.User{ID: "user-1"}, IssuedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Save %q: %v", token, err)
		}
	}

	out, err := state.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.AccessToken != "second" {
		t.Errorf("access token = %q, want the replacing session", out.AccessToken)
	}
}

func TestStateClear(t *testing.T) {
	state := openTestState(t)

	err := state.Save(&remote.Session{
		AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600,
		User: remote.User{ID: "user-1"}, IssuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := state.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sess, err := state.Load(); err != nil || sess != nil {
		t.Errorf("Load after Clear = (%v, %v), want (nil, nil)", sess, err)
	}
}

// fakeAuth serves the token endpoint, counting refreshes.
type fakeAuth struct {
	refreshes int
	failAuth  bool
}

func (f *fakeAuth) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/v1/token", func(w http.ResponseWriter, req *http.Request) {
		if f.failAuth {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "invalid token"})
			return
		}
		if req.URL.Query().Get("grant_type") == "refresh_token" {
			f.refreshes++
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "fresh-access",
			"refresh_token": "fresh-refresh",
			"expires_in":    3600,
			"user":          map[string]string{"id": "user-1", "email": "ada@example.com"},
		})
	})
	return r
}

func newTestManager(t *testing.T, auth *fakeAuth) (*Manager, *StateDB) {
	t.Helper()
	srv := httptest.NewServer(auth.router())
	t.Cleanup(srv.Close)
	client := remote.NewClient(srv.URL, "anon-key")
	state := openTestState(t)
	return NewManager(client, state, testLogger()), state
}

func TestRestoreNoStoredSession(t *testing.T) {
	m, _ := newTestManager(t, &fakeAuth{})

	ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if ok || m.SignedIn() {
		t.Error("Restore reported signed in with no stored session")
	}
}

func TestRestoreFreshSession(t *testing.T) {
	auth := &fakeAuth{}
	m, state := newTestManager(t, auth)

	err := state.Save(&remote.Session{
		AccessToken: "still-good", RefreshToken: "r", ExpiresIn: 3600,
		User: remote.User{ID: "user-1", Email: "ada@example.com"}, IssuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !ok || !m.SignedIn() {
		t.Fatal("Restore did not activate the stored session")
	}
	if auth.refreshes != 0 {
		t.Errorf("fresh session was refreshed %d times", auth.refreshes)
	}
	if m.UserEmail() != "ada@example.com" {
		t.Errorf("user email = %q", m.UserEmail())
	}
}

func TestRestoreRefreshesExpiredSession(t *testing.T) {
	auth := &fakeAuth{}
	m, state := newTestManager(t, auth)

	err := state.Save(&remote.Session{
		AccessToken: "stale", RefreshToken: "r", ExpiresIn: 3600,
		User: remote.User{ID: "user-1"}, IssuedAt: time.Now().Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !ok {
		t.Fatal("Restore failed for a refreshable session")
	}
	if auth.refreshes != 1 {
		t.Errorf("refresh count = %d, want 1", auth.refreshes)
	}

	stored, err := state.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.AccessToken != "fresh-access" {
		t.Errorf("stored token = %q, want the refreshed one", stored.AccessToken)
	}
}

func TestRestoreClearsOnFailedRefresh(t *testing.T) {
	m, state := newTestManager(t, &fakeAuth{failAuth: true})

	err := state.Save(&remote.Session{
		AccessToken: "stale", RefreshToken: "revoked", ExpiresIn: 3600,
		User: remote.User{ID: "user-1"}, IssuedAt: time.Now().Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if ok || m.SignedIn() {
		t.Error("Restore reported signed in after a failed refresh")
	}
	if sess, _ := state.Load(); sess != nil {
		t.Error("stale session still stored after failed refresh")
	}
}

func TestSignInPersists(t *testing.T) {
	m, state := newTestManager(t, &fakeAuth{})

	if err := m.SignIn(context.Background(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !m.SignedIn() {
		t.Fatal("not signed in after SignIn")
	}
	stored, err := state.Load()
	if err != nil || stored == nil {
		t.Fatalf("session not persisted: (%v, %v)", stored, err)
	}
}

func TestSignOut(t *testing.T) {
	m, state := newTestManager(t, &fakeAuth{})

	if err := m.SignIn(context.Background(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if m.SignedIn() {
		t.Error("still signed in after SignOut")
	}
	if sess, _ := state.Load(); sess != nil {
		t.Error("session still stored after SignOut")
	}
}
