package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/moodtunes/internal/server"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser-based PKCE authorization flow.
//
// Starts a local HTTP server, opens the browser for user authorization,
// and waits for Spotify to redirect back with the authorization code.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	authURL, err := r.flow.BeginLogin()
	if err != nil {
		return fmt.Errorf("failed to start authorization: %w", err)
	}

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := time.Duration(cmd.Int("timeout")) * time.Second
	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authenticated, err := server.WaitForCallback(waitCtx, r.config.Server, r.flow, r.logger)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if !authenticated {
		return fmt.Errorf("%w: no authorization received", shared.ErrAuthFailed)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now use: moodtunes generate happy\n")

	return nil
}

// AuthStatus reports the current token state from the credential store.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	creds := r.flow.Credentials()
	token := creds.Token()

	if token == nil {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run 'moodtunes auth login' to authorize\n")
		return nil
	}

	if token.AccessToken != "" && token.Expiry.After(time.Now()) {
		r.writePlain("Authentication: ✓ Authenticated\n")
		r.writePlain("Token expires: %s\n", token.Expiry.Format(time.RFC1123))
	} else if token.RefreshToken != "" {
		r.writePlain("Authentication: ✓ Session expired, will refresh on next use\n")
	} else {
		r.writePlain("Authentication: ✗ Not authenticated\n")
	}

	if scope, ok := creds.Scope(); ok {
		r.writePlain("Scopes: %s\n", scope)
	}

	return nil
}

// AuthRefresh forces a token refresh, surfacing refresh failures directly.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	if _, err := r.flow.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	r.writePlain("✓ Access token refreshed\n")
	return nil
}

// AuthLogout clears all stored credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	r.flow.Logout()
	r.writePlain("✓ Logged out, all credentials cleared\n")
	return nil
}
