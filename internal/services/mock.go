package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// MockService is an offline [Service] used in mock mode and in tests.
// It returns canned data and never touches the network, but enforces
// the same input validation as the real service.
type MockService struct {
	Playlists []SpotifyPlaylist
}

// NewMockService creates an empty mock service.
func NewMockService() *MockService {
	return &MockService{}
}

func (m *MockService) Name() string {
	return "Mock"
}

func (m *MockService) Profile(ctx context.Context) (*SpotifyUser, error) {
	return &SpotifyUser{ID: "mock-user", DisplayName: "Mock Listener", Country: "US", Product: "premium"}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, params CreatePlaylistParams) (*SpotifyPlaylist, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	playlist := SpotifyPlaylist{
		ID:          shared.GenerateID(),
		Name:        params.Name,
		Description: params.Description,
		Public:      params.Public,
	}
	playlist.URI = "spotify:playlist:" + playlist.ID
	m.Playlists = append(m.Playlists, playlist)
	return &playlist, nil
}

func (m *MockService) AddTracks(ctx context.Context, params AddTracksParams) (*AddTracksResult, error) {
	if params.PlaylistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	return &AddTracksResult{Added: len(params.URIs), SnapshotID: shared.GenerateID()}, nil
}

func (m *MockService) Search(ctx context.Context, query string, limit int) ([]SpotifyTrack, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}
	return m.tracks(clampLimit(limit, maxListLimit), "Result for "+query), nil
}

func (m *MockService) TopArtists(ctx context.Context, limit int, window string) ([]SpotifyArtist, error) {
	count := clampLimit(limit, maxListLimit)
	artists := make([]SpotifyArtist, count)
	for i := range artists {
		artists[i] = SpotifyArtist{
			ID:     fmt.Sprintf("mock-artist-%d", i+1),
			Name:   fmt.Sprintf("Mock Artist %d", i+1),
			Genres: []string{"pop", "indie"},
		}
	}
	return artists, nil
}

func (m *MockService) TopTracks(ctx context.Context, limit int, window string) ([]SpotifyTrack, error) {
	return m.tracks(clampLimit(limit, maxListLimit), "Top Track"), nil
}

func (m *MockService) RecentlyPlayed(ctx context.Context, limit int) ([]SpotifyPlayHistory, error) {
	tracks := m.tracks(clampLimit(limit, maxListLimit), "Recent Track")
	history := make([]SpotifyPlayHistory, len(tracks))
	for i, track := range tracks {
		history[i] = SpotifyPlayHistory{PlayedAt: fmt.Sprintf("2024-01-%02dT12:00:00Z", i+1), Track: track}
	}
	return history, nil
}

func (m *MockService) Recommendations(ctx context.Context, params RecommendationParams) ([]SpotifyTrack, error) {
	if len(params.SeedTracks)+len(params.SeedArtists)+len(params.SeedGenres) == 0 {
		return nil, fmt.Errorf("%w: at least one recommendation seed is required", shared.ErrInvalidInput)
	}
	return m.tracks(clampLimit(params.Limit, maxRecommendationLimit), "Recommended Track"), nil
}

func (m *MockService) tracks(count int, prefix string) []SpotifyTrack {
	tracks := make([]SpotifyTrack, count)
	for i := range tracks {
		id := fmt.Sprintf("mock-track-%d", i+1)
		tracks[i] = SpotifyTrack{
			ID:         id,
			Name:       fmt.Sprintf("%s %d", prefix, i+1),
			Artists:    []SpotifyArtist{{ID: fmt.Sprintf("mock-artist-%d", i%5+1), Name: fmt.Sprintf("Mock Artist %d", i%5+1)}},
			Album:      SpotifyAlbum{ID: fmt.Sprintf("mock-album-%d", i%3+1), Name: fmt.Sprintf("Mock Album %d", i%3+1)},
			DurationMS: 180000 + i*1000,
			Popularity: 50 + i%50,
			URI:        "spotify:track:" + id,
		}
	}
	return tracks
}
