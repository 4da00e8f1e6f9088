// Package services defines the [Service] façade over the Spotify Web
// API and the resilient [Client] every call flows through.
//
// # Client
//
// [Client] is the single choke point for API traffic. It obtains a
// bearer token from its [Authenticator], rate limits outbound
// requests, and recovers from a 401 with exactly one refresh-and-retry
// cycle. A second 401 surfaces as [shared.ErrAuthFailed]; nothing is
// retried a third time. Non-authentication failures (429, 5xx) are
// surfaced verbatim so callers own their backoff policy.
//
// # Façade
//
// [SpotifyService] validates and normalizes inputs before delegating
// to the client: list limits are clamped to the provider's accepted
// ranges, recommendation seeds are capped at five (tracks first, then
// artists, then genres), and AddTracks batches at 100 URIs per call.
//
// # Mock Mode
//
// [MockService] implements the same façade offline with canned data.
// It is selected by mode = "mock" in the config file and shares the
// real service's validation rules.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no usable token and refresh impossible
//   - [shared.ErrAuthFailed] : the retry after a 401 still failed
//   - [shared.ErrAPIRequest] : any other non-success HTTP status
//   - [shared.ErrInvalidInput] : a caller-supplied parameter was malformed
package services
