package auth

import (
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/moodtunes/internal/store"
)

// Storage keys for persisted credential state. The verifier and state
// keys live in the session store and never reach the persistent store.
const (
	KeyAccessToken    = "spotify_access_token"
	KeyTokenExpiresAt = "spotify_token_expires_at"
	KeyRefreshToken   = "spotify_refresh_token"
	KeyTokenScope     = "spotify_token_scope"
	KeyCodeVerifier   = "spotify_code_verifier"
	KeyOAuthState     = "spotify_auth_state"
)

// Credentials owns all reads and writes of persisted token state.
// Expiry is stored as an absolute unix-millisecond instant.
type Credentials struct {
	store store.Store
	now   func() time.Time
}

// NewCredentials wraps a key/value store.
func NewCredentials(s store.Store) *Credentials {
	return &Credentials{store: s, now: time.Now}
}

// Save persists an access token with an absolute expiry computed from
// the provider's expires_in seconds. An empty scope clears the stored
// scope rather than retaining a stale one.
func (c *Credentials) Save(token string, expiresInSeconds int, scope string) {
	expiry := c.now().UnixMilli() + int64(expiresInSeconds)*1000
	c.store.Set(KeyAccessToken, token)
	c.store.Set(KeyTokenExpiresAt, strconv.FormatInt(expiry, 10))
	if scope != "" {
		c.store.Set(KeyTokenScope, scope)
	} else {
		c.store.Delete(KeyTokenScope)
	}
}

// Read returns the cached access token if present and unexpired. An
// expired or expiry-less token is cleared on the spot so stale state
// never lingers; the refresh token is untouched by that cleanup.
func (c *Credentials) Read() (string, bool) {
	token, ok := c.store.Get(KeyAccessToken)
	if !ok || token == "" {
		return "", false
	}

	raw, ok := c.store.Get(KeyTokenExpiresAt)
	expiry, err := strconv.ParseInt(raw, 10, 64)
	if !ok || err != nil || c.now().UnixMilli() >= expiry {
		c.Clear()
		return "", false
	}

	return token, true
}

// Clear removes the access token, its expiry, and the scope. The
// refresh token survives so a refresh can still recover the session.
func (c *Credentials) Clear() {
	c.store.Delete(KeyAccessToken)
	c.store.Delete(KeyTokenExpiresAt)
	c.store.Delete(KeyTokenScope)
}

// SaveRefresh persists a refresh token.
func (c *Credentials) SaveRefresh(token string) {
	c.store.Set(KeyRefreshToken, token)
}

// ReadRefresh returns the stored refresh token, if any.
func (c *Credentials) ReadRefresh() (string, bool) {
	token, ok := c.store.Get(KeyRefreshToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ClearRefresh removes the refresh token.
func (c *Credentials) ClearRefresh() {
	c.store.Delete(KeyRefreshToken)
}

// ClearAll wipes every credential field. Used on logout and on
// irrecoverable refresh failure.
func (c *Credentials) ClearAll() {
	c.Clear()
	c.ClearRefresh()
}

// IsAuthenticated reports whether a usable access token is cached.
func (c *Credentials) IsAuthenticated() bool {
	_, ok := c.Read()
	return ok
}

// Scope returns the granted scope string, if recorded.
func (c *Credentials) Scope() (string, bool) {
	return c.store.Get(KeyTokenScope)
}

// Token assembles the stored state into an [oauth2.Token] for display
// and interop. Returns nil when no token state exists at all.
func (c *Credentials) Token() *oauth2.Token {
	access, _ := c.store.Get(KeyAccessToken)
	refresh, _ := c.store.Get(KeyRefreshToken)
	if access == "" && refresh == "" {
		return nil
	}

	token := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	if raw, ok := c.store.Get(KeyTokenExpiresAt); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			token.Expiry = time.UnixMilli(ms)
		}
	}
	return token
}
