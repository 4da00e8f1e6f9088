// package auth implements the Spotify authorization code flow with
// PKCE: verifier generation, the browser handoff, the code exchange,
// and the refresh engine that keeps the session alive.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/desertthunder/moodtunes/internal/store"
)

// Default Spotify account endpoints. Overridable for tests.
const (
	DefaultAuthorizeURL = "https://accounts.spotify.com/authorize"
	DefaultTokenURL     = "https://accounts.spotify.com/api/token"
)

// tokenResponse is the token endpoint's JSON payload for the refresh
// grant.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (t tokenResponse) errorText() string {
	if t.ErrorDescription != "" {
		return t.ErrorDescription
	}
	return t.Error
}

// Flow drives the login state machine. Credentials hold persisted
// token state; the session store holds the tab-scoped PKCE verifier
// and state parameter.
type Flow struct {
	AuthorizeURL string
	TokenURL     string

	clientID    string
	redirectURI string
	scopes      []string
	creds       *Credentials
	session     store.Store
	client      *http.Client
	logger      *log.Logger
}

// NewFlow constructs a Flow from the Spotify app registration.
func NewFlow(cfg shared.SpotifyConfig, creds *Credentials, session store.Store, client *http.Client, logger *log.Logger) *Flow {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &Flow{
		AuthorizeURL: DefaultAuthorizeURL,
		TokenURL:     DefaultTokenURL,
		clientID:     cfg.ClientID,
		redirectURI:  cfg.RedirectURI,
		scopes:       cfg.ScopeList(),
		creds:        creds,
		session:      session,
		client:       client,
		logger:       logger,
	}
}

// Credentials exposes the credential store the flow writes to.
func (f *Flow) Credentials() *Credentials {
	return f.creds
}

// BeginLogin generates a fresh verifier and state, stashes both in the
// session store, and returns the authorization URL to open in the
// user's browser.
func (f *Flow) BeginLogin() (string, error) {
	if f.clientID == "" {
		return "", fmt.Errorf("%w: spotify client_id is not set", shared.ErrMissingCredentials)
	}

	verifier, err := GenerateVerifier()
	if err != nil {
		return "", err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return "", err
	}

	f.session.Set(KeyCodeVerifier, verifier)
	f.session.Set(KeyOAuthState, state)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", f.clientID)
	params.Set("scope", strings.Join(f.scopes, " "))
	params.Set("redirect_uri", f.redirectURI)
	params.Set("code_challenge_method", "S256")
	params.Set("code_challenge", Challenge(verifier))
	params.Set("state", state)

	return f.AuthorizeURL + "?" + params.Encode(), nil
}

// HandleCallback processes the query parameters delivered to the
// redirect URI. It returns false with a nil error when the query does
// not look like an authorization callback at all.
//
// The verifier is consumed before the exchange request is issued, on
// success and failure alike, so a re-entrant callback can never see a
// half-consumed verifier.
func (f *Flow) HandleCallback(ctx context.Context, query url.Values) (bool, error) {
	if errParam := query.Get("error"); errParam != "" {
		f.clearSession()
		return false, fmt.Errorf("%w: %s", shared.ErrAuthorizationDenied, errParam)
	}

	code := query.Get("code")
	if code == "" {
		return false, nil
	}

	if state, ok := f.session.Get(KeyOAuthState); ok && query.Get("state") != state {
		f.clearSession()
		return false, fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed)
	}

	verifier, ok := f.session.Get(KeyCodeVerifier)
	f.clearSession()
	if !ok || verifier == "" {
		return false, shared.ErrMissingVerifier
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.client)
	token, err := f.oauthConfig().Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return false, fmt.Errorf("%w: %s", shared.ErrTokenExchangeFailed, grantErrorText(err))
	}

	scope, _ := token.Extra("scope").(string)
	f.creds.Save(token.AccessToken, int(token.ExpiresIn), scope)
	if token.RefreshToken != "" {
		f.creds.SaveRefresh(token.RefreshToken)
	}

	f.logger.Info("token exchange complete", "expires_in", token.ExpiresIn)
	return true, nil
}

// oauthConfig builds the oauth2 configuration for the code exchange.
// AuthStyleInParams keeps client_id in the form body; a public PKCE
// client has no secret to send.
func (f *Flow) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    f.clientID,
		RedirectURL: f.redirectURI,
		Scopes:      f.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.AuthorizeURL,
			TokenURL:  f.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// grantErrorText surfaces the provider's error_description when the
// token endpoint rejected the grant.
func grantErrorText(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
		if re.ErrorCode != "" {
			return re.ErrorCode
		}
	}
	return err.Error()
}

// Refresh exchanges the stored refresh token for a new access token.
// A provider rejection clears all credential state; the caller must
// send the user back through BeginLogin.
func (f *Flow) Refresh(ctx context.Context) (string, error) {
	refresh, ok := f.creds.ReadRefresh()
	if !ok {
		return "", shared.ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)
	form.Set("client_id", f.clientID)

	token, err := f.exchange(ctx, form)
	if err != nil {
		f.creds.ClearAll()
		f.logger.Warn("refresh rejected, credentials cleared", "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	f.creds.Save(token.AccessToken, token.ExpiresIn, token.Scope)
	if token.RefreshToken != "" {
		f.creds.SaveRefresh(token.RefreshToken)
	}

	return token.AccessToken, nil
}

// AccessToken returns a usable bearer token, refreshing when the
// cached one is absent or expired.
func (f *Flow) AccessToken(ctx context.Context) (string, error) {
	if token, ok := f.creds.Read(); ok {
		return token, nil
	}

	token, err := f.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	return token, nil
}

// Logout discards every credential and any pending login session.
func (f *Flow) Logout() {
	f.creds.ClearAll()
	f.clearSession()
}

func (f *Flow) clearSession() {
	f.session.Delete(KeyCodeVerifier)
	f.session.Delete(KeyOAuthState)
}

// exchange posts the refresh grant to the token endpoint and decodes
// the response, treating any non-2xx status as an error carrying the
// provider's description.
func (f *Flow) exchange(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if text := token.errorText(); text != "" {
			return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, text)
		}
		return nil, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &token, nil
}
