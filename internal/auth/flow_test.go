package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/desertthunder/moodtunes/internal/store"
)

func newTestFlow(t *testing.T, tokenURL string) (*Flow, *store.MemoryStore, *store.MemoryStore) {
	t.Helper()
	persistent := store.NewMemoryStore()
	session := store.NewMemoryStore()
	cfg := shared.SpotifyConfig{
		ClientID:    "client-1",
		RedirectURI: "http://localhost:8080/callback",
		Scopes:      "user-read-private playlist-modify-private",
	}
	flow := NewFlow(cfg, NewCredentials(persistent), session, nil, shared.NewLogger(io.Discard))
	if tokenURL != "" {
		flow.TokenURL = tokenURL
	}
	return flow, persistent, session
}

func TestBeginLogin(t *testing.T) {
	t.Run("builds authorization URL and stores verifier", func(t *testing.T) {
		flow, _, session := newTestFlow(t, "")

		authURL, err := flow.BeginLogin()
		if err != nil {
			t.Fatalf("BeginLogin failed: %v", err)
		}

		parsed, err := url.Parse(authURL)
		if err != nil {
			t.Fatalf("invalid auth URL: %v", err)
		}

		q := parsed.Query()
		if q.Get("response_type") != "code" {
			t.Errorf("expected response_type=code, got %s", q.Get("response_type"))
		}
		if q.Get("client_id") != "client-1" {
			t.Errorf("expected client_id client-1, got %s", q.Get("client_id"))
		}
		if q.Get("code_challenge_method") != "S256" {
			t.Errorf("expected S256 challenge method, got %s", q.Get("code_challenge_method"))
		}
		if q.Get("scope") != "user-read-private playlist-modify-private" {
			t.Errorf("unexpected scope %s", q.Get("scope"))
		}

		verifier, ok := session.Get(KeyCodeVerifier)
		if !ok {
			t.Fatal("expected verifier in session store")
		}
		if q.Get("code_challenge") != Challenge(verifier) {
			t.Error("challenge does not match stored verifier")
		}

		state, ok := session.Get(KeyOAuthState)
		if !ok || q.Get("state") != state {
			t.Error("state parameter does not match stored state")
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")
		flow.clientID = ""

		if _, err := flow.BeginLogin(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("successful exchange", func(t *testing.T) {
		var gotForm url.Values
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotForm, _ = url.ParseQuery(string(body))
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"AT1","token_type":"Bearer","expires_in":3600,"refresh_token":"RT1","scope":"user-read-private"}`))
		}))
		defer srv.Close()

		flow, _, session := newTestFlow(t, srv.URL)
		session.Set(KeyCodeVerifier, "verifier-123")
		session.Set(KeyOAuthState, "state-1")

		ok, err := flow.HandleCallback(ctx, url.Values{"code": {"abc123"}, "state": {"state-1"}})
		if err != nil {
			t.Fatalf("HandleCallback failed: %v", err)
		}
		if !ok {
			t.Fatal("expected callback to report success")
		}

		if gotForm.Get("grant_type") != "authorization_code" {
			t.Errorf("expected authorization_code grant, got %s", gotForm.Get("grant_type"))
		}
		if gotForm.Get("code") != "abc123" {
			t.Errorf("expected code abc123, got %s", gotForm.Get("code"))
		}
		if gotForm.Get("code_verifier") != "verifier-123" {
			t.Errorf("expected stored verifier, got %s", gotForm.Get("code_verifier"))
		}
		if gotForm.Get("client_id") != "client-1" {
			t.Errorf("expected client_id in form body, got %s", gotForm.Get("client_id"))
		}
		if _, ok := gotForm["client_secret"]; ok {
			t.Error("expected no client secret for a public client")
		}
		if gotAuth != "" {
			t.Errorf("expected no Authorization header on the exchange, got %s", gotAuth)
		}

		if !flow.Credentials().IsAuthenticated() {
			t.Error("expected authenticated state after exchange")
		}
		if refresh, _ := flow.Credentials().ReadRefresh(); refresh != "RT1" {
			t.Errorf("expected refresh token RT1, got %s", refresh)
		}
		if _, ok := session.Get(KeyCodeVerifier); ok {
			t.Error("expected verifier to be consumed")
		}
	})

	t.Run("provider error parameter", func(t *testing.T) {
		flow, _, session := newTestFlow(t, "")
		session.Set(KeyCodeVerifier, "verifier-123")

		ok, err := flow.HandleCallback(ctx, url.Values{"error": {"access_denied"}})
		if ok {
			t.Error("expected failure result")
		}
		if !errors.Is(err, shared.ErrAuthorizationDenied) {
			t.Errorf("expected ErrAuthorizationDenied, got %v", err)
		}
		if !strings.Contains(err.Error(), "access_denied") {
			t.Errorf("expected provider error string in message, got %v", err)
		}
		if _, ok := session.Get(KeyCodeVerifier); ok {
			t.Error("expected verifier to be cleared on failure")
		}
	})

	t.Run("no code parameter is not a callback", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")

		ok, err := flow.HandleCallback(ctx, url.Values{})
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if ok {
			t.Error("expected false for a non-callback query")
		}
	})

	t.Run("missing verifier", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")

		_, err := flow.HandleCallback(ctx, url.Values{"code": {"abc123"}})
		if !errors.Is(err, shared.ErrMissingVerifier) {
			t.Errorf("expected ErrMissingVerifier, got %v", err)
		}
	})

	t.Run("state mismatch", func(t *testing.T) {
		flow, _, session := newTestFlow(t, "")
		session.Set(KeyCodeVerifier, "verifier-123")
		session.Set(KeyOAuthState, "expected-state")

		_, err := flow.HandleCallback(ctx, url.Values{"code": {"abc123"}, "state": {"wrong"}})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if _, ok := session.Get(KeyCodeVerifier); ok {
			t.Error("expected session to be cleared on state mismatch")
		}
	})

	t.Run("exchange rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid authorization code"}`))
		}))
		defer srv.Close()

		flow, _, session := newTestFlow(t, srv.URL)
		session.Set(KeyCodeVerifier, "verifier-123")

		_, err := flow.HandleCallback(ctx, url.Values{"code": {"stale"}})
		if !errors.Is(err, shared.ErrTokenExchangeFailed) {
			t.Errorf("expected ErrTokenExchangeFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "Invalid authorization code") {
			t.Errorf("expected provider description in error, got %v", err)
		}
		if _, ok := session.Get(KeyCodeVerifier); ok {
			t.Error("expected verifier to be cleared after a failed exchange")
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("no refresh token", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")

		if _, err := flow.Refresh(ctx); !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("success replaces access token", func(t *testing.T) {
		var gotForm url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotForm, _ = url.ParseQuery(string(body))
			w.Write([]byte(`{"access_token":"AT2","expires_in":3600}`))
		}))
		defer srv.Close()

		flow, _, _ := newTestFlow(t, srv.URL)
		flow.Credentials().SaveRefresh("RT1")

		token, err := flow.Refresh(ctx)
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if token != "AT2" {
			t.Errorf("expected AT2, got %s", token)
		}

		if gotForm.Get("grant_type") != "refresh_token" {
			t.Errorf("expected refresh_token grant, got %s", gotForm.Get("grant_type"))
		}
		if gotForm.Get("refresh_token") != "RT1" {
			t.Errorf("expected RT1, got %s", gotForm.Get("refresh_token"))
		}

		// Provider omitted refresh_token: prior one must survive.
		if refresh, _ := flow.Credentials().ReadRefresh(); refresh != "RT1" {
			t.Errorf("expected RT1 to be retained, got %s", refresh)
		}
	})

	t.Run("rotated refresh token overwrites", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token":"AT2","expires_in":3600,"refresh_token":"RT2"}`))
		}))
		defer srv.Close()

		flow, _, _ := newTestFlow(t, srv.URL)
		flow.Credentials().SaveRefresh("RT1")

		if _, err := flow.Refresh(ctx); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if refresh, _ := flow.Credentials().ReadRefresh(); refresh != "RT2" {
			t.Errorf("expected RT2, got %s", refresh)
		}
	})

	t.Run("rejection clears all credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer srv.Close()

		flow, _, _ := newTestFlow(t, srv.URL)
		flow.Credentials().Save("AT1", 3600, "scope")
		flow.Credentials().SaveRefresh("RT1")

		_, err := flow.Refresh(ctx)
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if _, ok := flow.Credentials().ReadRefresh(); ok {
			t.Error("expected refresh token to be cleared")
		}
		if flow.Credentials().IsAuthenticated() {
			t.Error("expected access token to be cleared")
		}
	})
}

func TestAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached token", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")
		flow.Credentials().Save("AT1", 3600, "")

		token, err := flow.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if token != "AT1" {
			t.Errorf("expected AT1, got %s", token)
		}
	})

	t.Run("refreshes when cache is empty", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token":"AT2","expires_in":3600}`))
		}))
		defer srv.Close()

		flow, _, _ := newTestFlow(t, srv.URL)
		flow.Credentials().SaveRefresh("RT1")

		token, err := flow.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if token != "AT2" {
			t.Errorf("expected AT2, got %s", token)
		}

		// Refreshed token is now readable from the store.
		if cached, ok := flow.Credentials().Read(); !ok || cached != "AT2" {
			t.Errorf("expected AT2 cached, got %q", cached)
		}
	})

	t.Run("not authenticated when refresh impossible", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, "")

		if _, err := flow.AccessToken(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	flow, _, session := newTestFlow(t, "")
	flow.Credentials().Save("AT1", 3600, "scope")
	flow.Credentials().SaveRefresh("RT1")
	session.Set(KeyCodeVerifier, "verifier")
	session.Set(KeyOAuthState, "state")

	flow.Logout()

	if flow.Credentials().IsAuthenticated() {
		t.Error("expected unauthenticated state after logout")
	}
	if _, ok := flow.Credentials().ReadRefresh(); ok {
		t.Error("expected refresh token to be gone")
	}
	if _, ok := session.Get(KeyCodeVerifier); ok {
		t.Error("expected session verifier to be gone")
	}
}
