// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// SpotifyBaseURL is the production Web API root.
const SpotifyBaseURL = "https://api.spotify.com/v1"

// Provider limits on list endpoints and recommendation seeds.
const (
	maxListLimit           = 50
	maxRecommendationLimit = 100
	maxSeeds               = 5
	addTracksBatchSize     = 100
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// ArtistNames joins the track's artist names for display.
func (t SpotifyTrack) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
	ExternalURL struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// SpotifyPlayHistory represents one recently-played entry.
type SpotifyPlayHistory struct {
	PlayedAt string       `json:"played_at"`
	Track    SpotifyTrack `json:"track"`
}

// CreatePlaylistParams describes a playlist to create. UserID is
// resolved via Profile when left empty.
type CreatePlaylistParams struct {
	Name        string
	Description string
	Public      bool
	UserID      string
}

// AddTracksParams describes tracks to append to a playlist.
type AddTracksParams struct {
	PlaylistID string
	URIs       []string
	Position   *int
}

// AddTracksResult reports how many tracks were added and the playlist
// revision marker from the final batch.
type AddTracksResult struct {
	Added      int
	SnapshotID string
}

// RecommendationParams carries seeds and audio-feature tuning for the
// recommendations endpoint. Tunables hold target_/min_/max_ keys and
// are forwarded verbatim.
type RecommendationParams struct {
	SeedTracks  []string
	SeedArtists []string
	SeedGenres  []string
	Limit       int
	Tunables    map[string]float64
}

// Service is the façade the generator talks to. Implementations
// validate inputs before any network traffic.
type Service interface {
	Profile(ctx context.Context) (*SpotifyUser, error)
	CreatePlaylist(ctx context.Context, params CreatePlaylistParams) (*SpotifyPlaylist, error)
	AddTracks(ctx context.Context, params AddTracksParams) (*AddTracksResult, error)
	Search(ctx context.Context, query string, limit int) ([]SpotifyTrack, error)
	TopArtists(ctx context.Context, limit int, window string) ([]SpotifyArtist, error)
	TopTracks(ctx context.Context, limit int, window string) ([]SpotifyTrack, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]SpotifyPlayHistory, error)
	Recommendations(ctx context.Context, params RecommendationParams) ([]SpotifyTrack, error)
	Name() string
}

// SpotifyService implements [Service] against the real Web API through
// the resilient [Client].
type SpotifyService struct {
	client *Client
}

// NewSpotifyService wraps an API client.
func NewSpotifyService(client *Client) *SpotifyService {
	return &SpotifyService{client: client}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Profile retrieves the current authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context) (*SpotifyUser, error) {
	resp, err := s.client.Do(ctx, Request{Endpoint: "/me"})
	if err != nil {
		return nil, err
	}

	var user SpotifyUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePlaylist creates a playlist owned by the given (or current) user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, params CreatePlaylistParams) (*SpotifyPlaylist, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	userID := params.UserID
	if userID == "" {
		profile, err := s.Profile(ctx)
		if err != nil {
			return nil, err
		}
		userID = profile.ID
	}

	body := map[string]any{
		"name":        params.Name,
		"description": params.Description,
		"public":      params.Public,
	}

	resp, err := s.client.Do(ctx, Request{
		Endpoint: fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID)),
		Method:   http.MethodPost,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}

	var playlist SpotifyPlaylist
	if err := resp.Decode(&playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracks appends URIs to a playlist in batches of 100. An empty URI
// list is a no-op success rather than a malformed empty-body call.
func (s *SpotifyService) AddTracks(ctx context.Context, params AddTracksParams) (*AddTracksResult, error) {
	if params.PlaylistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	result := &AddTracksResult{}
	if len(params.URIs) == 0 {
		return result, nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(params.PlaylistID))

	for start := 0; start < len(params.URIs); start += addTracksBatchSize {
		end := start + addTracksBatchSize
		if end > len(params.URIs) {
			end = len(params.URIs)
		}
		batch := params.URIs[start:end]

		body := map[string]any{"uris": batch}
		if params.Position != nil && start == 0 {
			body["position"] = *params.Position
		}

		resp, err := s.client.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodPost, Body: body})
		if err != nil {
			return nil, err
		}

		var snapshot struct {
			SnapshotID string `json:"snapshot_id"`
		}
		if err := resp.Decode(&snapshot); err != nil {
			return nil, err
		}

		result.Added += len(batch)
		result.SnapshotID = snapshot.SnapshotID
	}

	return result, nil
}

// Search finds tracks matching a free-text query.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]SpotifyTrack, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(clampLimit(limit, maxListLimit)))

	resp, err := s.client.Do(ctx, Request{Endpoint: "/search?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Tracks.Items, nil
}

// TopArtists retrieves the user's top artists for a time window
// (short_term, medium_term, or long_term).
func (s *SpotifyService) TopArtists(ctx context.Context, limit int, window string) ([]SpotifyArtist, error) {
	endpoint := topEndpoint("artists", limit, window)

	resp, err := s.client.Do(ctx, Request{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []SpotifyArtist `json:"items"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// TopTracks retrieves the user's top tracks for a time window.
func (s *SpotifyService) TopTracks(ctx context.Context, limit int, window string) ([]SpotifyTrack, error) {
	endpoint := topEndpoint("tracks", limit, window)

	resp, err := s.client.Do(ctx, Request{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []SpotifyTrack `json:"items"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// RecentlyPlayed retrieves the user's listening history, newest first.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, limit int) ([]SpotifyPlayHistory, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(clampLimit(limit, maxListLimit)))

	resp, err := s.client.Do(ctx, Request{Endpoint: "/me/player/recently-played?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []SpotifyPlayHistory `json:"items"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// Recommendations retrieves tracks for the given seeds and tunables.
// At least one seed is required; the combined seed count is capped at
// five, preferring track seeds, then artists, then genres.
func (s *SpotifyService) Recommendations(ctx context.Context, params RecommendationParams) ([]SpotifyTrack, error) {
	tracks, artists, genres := capSeeds(params.SeedTracks, params.SeedArtists, params.SeedGenres)
	if len(tracks)+len(artists)+len(genres) == 0 {
		return nil, fmt.Errorf("%w: at least one recommendation seed is required", shared.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(params.Limit, maxRecommendationLimit)))
	if len(tracks) > 0 {
		query.Set("seed_tracks", strings.Join(tracks, ","))
	}
	if len(artists) > 0 {
		query.Set("seed_artists", strings.Join(artists, ","))
	}
	if len(genres) > 0 {
		query.Set("seed_genres", strings.Join(genres, ","))
	}

	// Deterministic ordering keeps request URLs stable.
	keys := make([]string, 0, len(params.Tunables))
	for key := range params.Tunables {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query.Set(key, strconv.FormatFloat(params.Tunables[key], 'f', -1, 64))
	}

	resp, err := s.client.Do(ctx, Request{Endpoint: "/recommendations?" + query.Encode()})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Tracks, nil
}

func topEndpoint(kind string, limit int, window string) string {
	switch window {
	case "short_term", "medium_term", "long_term":
	default:
		window = "medium_term"
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(clampLimit(limit, maxListLimit)))
	params.Set("time_range", window)
	return "/me/top/" + kind + "?" + params.Encode()
}

// clampLimit forces limit into [1, max], defaulting to 20 when unset.
func clampLimit(limit, max int) int {
	if limit <= 0 {
		limit = 20
	}
	if limit > max {
		limit = max
	}
	return limit
}

// capSeeds trims the combined seed count to five, apportioning
// preferentially to track seeds, then artists, then genres.
func capSeeds(tracks, artists, genres []string) ([]string, []string, []string) {
	remaining := maxSeeds
	take := func(seeds []string) []string {
		if len(seeds) > remaining {
			seeds = seeds[:remaining]
		}
		remaining -= len(seeds)
		return seeds
	}
	tracks = take(tracks)
	artists = take(artists)
	genres = take(genres)
	return tracks, artists, genres
}
