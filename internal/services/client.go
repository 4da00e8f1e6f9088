// Resilient HTTP client for the Spotify Web API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// Authenticator supplies bearer tokens and performs the recovery
// refresh after a 401. Implemented by [auth.Flow].
type Authenticator interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Request describes a single API call. Endpoint is a path relative to
// the base URL. Method defaults to GET.
type Request struct {
	Endpoint string
	Method   string
	Body     any
	Headers  map[string]string
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Client is the single choke point for Spotify API traffic. Every
// request is rate limited, carries a bearer token, and on a 401 gets
// exactly one refresh-and-retry cycle.
type Client struct {
	baseURL    string
	auth       Authenticator
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a client against the given base URL. A nil limiter
// defaults to 10 requests per second with a small burst.
func NewClient(baseURL string, auth Authenticator, httpClient *http.Client, limiter *rate.Limiter, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(10), 5)
	}
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &Client{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// spotifyError is the structured error body the API attaches to
// non-success responses.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Do executes a request. A 401 triggers one refresh and one retry; a
// second 401 (or a failed refresh) surfaces as ErrAuthFailed with no
// third attempt. Other non-success statuses are returned to the caller
// untouched for its own backoff policy.
func (c *Client) Do(ctx context.Context, r Request) (*APIResponse, error) {
	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := serializeBody(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request body: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.execute(ctx, r, payload, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Debug("received 401, refreshing token", "endpoint", r.Endpoint)

		token, err = c.auth.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}

		// The retry is a second request against the same budget.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err = c.execute(ctx, r, payload, token)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: retried request returned %d: %s", shared.ErrAuthFailed, resp.StatusCode, errorMessage(resp))
		}
		return resp, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d: %s", shared.ErrAPIRequest, r.Endpoint, resp.StatusCode, errorMessage(resp))
	}

	return resp, nil
}

// execute builds and runs a single HTTP attempt. The serialized
// payload is reused so the 401 retry sends an identical body.
func (c *Client) execute(ctx context.Context, r Request, payload []byte, token string) (*APIResponse, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body *bytes.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	// Some endpoints legitimately return empty or non-JSON bodies, so
	// a parse failure keeps the raw text rather than erroring.
	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Decode unmarshals a successful response body into out.
func (r *APIResponse) Decode(out any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func serializeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

func errorMessage(resp *APIResponse) string {
	var e spotifyError
	if err := json.Unmarshal(resp.Body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(resp.Body)
}
