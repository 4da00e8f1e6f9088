package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// CallbackExchanger consumes the authorization callback query and
// completes the token exchange. Implemented by [auth.Flow].
type CallbackExchanger interface {
	HandleCallback(ctx context.Context, query url.Values) (bool, error)
}

// CallbackResult is the outcome of one authorization attempt.
type CallbackResult struct {
	Authenticated bool
	err           error
}

func (r CallbackResult) Error() error {
	return r.err
}

// CallbackHandler serves the OAuth redirect URI. It processes exactly
// one callback and reports the outcome through a channel; later hits
// are rejected to prevent replay.
type CallbackHandler struct {
	exchanger  CallbackExchanger
	resultChan chan CallbackResult
	once       sync.Once
	handled    bool
	mu         sync.Mutex
}

// NewCallbackHandler creates a handler delegating to the given exchanger.
func NewCallbackHandler(exchanger CallbackExchanger) *CallbackHandler {
	return &CallbackHandler{
		exchanger:  exchanger,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the authorization redirect, performs the code
// exchange, and renders a page telling the user to return to the
// terminal.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	ok, err := h.exchanger.HandleCallback(r.Context(), r.URL.Query())
	if err != nil {
		h.send(CallbackResult{err: err})
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, failurePage, err)
		return
	}
	if !ok {
		h.send(CallbackResult{err: fmt.Errorf("%w: no authorization code in callback", shared.ErrAuthFailed)})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	h.send(CallbackResult{Authenticated: true})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the result exactly once and closes the channel.
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the single authorization outcome.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

// WaitForCallback runs a temporary HTTP server on the configured host
// and port until one callback arrives, the context expires, or the
// server fails to start.
func WaitForCallback(ctx context.Context, cfg shared.ServerConfig, exchanger CallbackExchanger, logger *log.Logger) (bool, error) {
	handler := NewCallbackHandler(exchanger)

	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger))
	router.Handler(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return false, err
		}
		return result.Authenticated, nil
	case err := <-errChan:
		return false, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return false, fmt.Errorf("%w: no callback received", shared.ErrTimeout)
	}
}

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`

const failurePage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Failed</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #E22134; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10007; Authorization Failed</h1>
        <p>%v</p>
    </div>
</body>
</html>
`
