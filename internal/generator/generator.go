// package generator assembles mood-based playlists from listening
// history and the recommendation endpoint.
//
// The engine emits progress updates via channels for non-blocking
// status reporting to CLI/TUI layers.
package generator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moodtunes/internal/models"
	"github.com/desertthunder/moodtunes/internal/moods"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
)

const (
	defaultLimit = 20
	maxLimit     = 50
	seedCount    = 5
)

// Params configures one generation run.
type Params struct {
	Mood    string // UI mood (happy, sad, neutral, ...)
	Intent  string // UI intent (turn-it-up, change-the-mood, ...)
	Limit   int    // Track count, defaults to 20
	Public  bool   // Visibility of the created playlist
	Create  bool   // Create the playlist on Spotify, not just preview
	Shuffle bool   // Apply the deterministic mood-seeded shuffle
}

// Result contains everything a generation run produced.
type Result struct {
	Selection   moods.Selection
	Name        string
	Description string
	Tracks      []services.SpotifyTrack
	Playlist    *services.SpotifyPlaylist // nil unless Create was set
	Added       int
	SnapshotID  string
}

// HistoryRecorder persists a record of each created playlist.
// Implemented by repositories.PlaylistRepository.
type HistoryRecorder interface {
	Create(playlist *models.GeneratedPlaylist) error
}

// Engine orchestrates mood resolution, seed gathering, recommendations,
// and playlist creation.
type Engine struct {
	service services.Service
	history HistoryRecorder
	logger  *log.Logger
}

// NewEngine creates an engine. The history recorder is optional; a nil
// recorder skips the history step.
func NewEngine(service services.Service, history HistoryRecorder, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &Engine{service: service, history: history, logger: logger}
}

// Generate runs the full pipeline. Seed gathering degrades gracefully:
// top tracks, then top artists, then recent plays, then mood genre
// seeds, so a fresh account still gets a playlist.
func (e *Engine) Generate(ctx context.Context, progress chan<- ProgressUpdate, params Params) (*Result, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	e.sendProgress(progress, ProgressUpdate{Phase: ResolveMood, Step: 1, Total: 1, Message: "Resolving mood and intent..."})
	sel := moods.GetTargets(params.Mood, params.Intent)
	if sel.MoodChanged {
		e.logger.Info("flipping mood", "from", sel.UIMood, "to", sel.CoreMood)
	}

	e.sendProgress(progress, ProgressUpdate{Phase: FetchSeeds, Step: 1, Total: 1, Message: "Gathering seeds from your listening history..."})
	seeds := e.gatherSeeds(ctx, sel.CoreMood)

	e.sendProgress(progress, ProgressUpdate{Phase: FetchRecommendations, Step: 1, Total: 1, Message: "Fetching recommendations..."})
	tracks, err := e.service.Recommendations(ctx, services.RecommendationParams{
		SeedTracks:  seeds.tracks,
		SeedArtists: seeds.artists,
		SeedGenres:  seeds.genres,
		Limit:       limit,
		Tunables:    sel.Targets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	if params.Shuffle {
		e.sendProgress(progress, ProgressUpdate{Phase: ShuffleTracks, Step: 1, Total: 1, Message: "Shuffling tracks..."})
		tracks = shuffleTracks(tracks, sel.CoreMood+":"+sel.CoreIntent)
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	result := &Result{
		Selection:   sel,
		Name:        playlistName(sel),
		Description: fmt.Sprintf("Generated playlist for mood=%q and intent=%q.", sel.UIMood, sel.UIIntent),
		Tracks:      tracks,
	}

	if !params.Create {
		return result, nil
	}

	e.sendProgress(progress, ProgressUpdate{Phase: CreatePlaylist, Step: 1, Total: 1, Message: "Creating playlist..."})
	playlist, err := e.service.CreatePlaylist(ctx, services.CreatePlaylistParams{
		Name:        result.Name,
		Description: result.Description,
		Public:      params.Public,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	result.Playlist = playlist

	uris := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if track.URI != "" {
			uris = append(uris, track.URI)
		}
	}

	e.sendProgress(progress, ProgressUpdate{Phase: AddTracks, Step: 1, Total: len(uris), Message: "Adding tracks..."})
	added, err := e.service.AddTracks(ctx, services.AddTracksParams{PlaylistID: playlist.ID, URIs: uris})
	if err != nil {
		return nil, fmt.Errorf("failed to add tracks: %w", err)
	}
	result.Added = added.Added
	result.SnapshotID = added.SnapshotID

	if e.history != nil {
		e.sendProgress(progress, ProgressUpdate{Phase: RecordHistory, Step: 1, Total: 1, Message: "Recording history..."})
		record := models.NewGeneratedPlaylist(playlist.ID, result.Name, result.Description, sel.CoreMood, sel.CoreIntent, result.Added)
		if err := e.history.Create(record); err != nil {
			// History is best effort; the playlist already exists.
			e.logger.Warn("failed to record playlist history", "error", err)
		}
	}

	return result, nil
}

type seedSet struct {
	tracks  []string
	artists []string
	genres  []string
}

// gatherSeeds walks the fallback chain. Fetch errors are logged and
// treated the same as empty results.
func (e *Engine) gatherSeeds(ctx context.Context, coreMood string) seedSet {
	if tracks, err := e.service.TopTracks(ctx, seedCount, "medium_term"); err != nil {
		e.logger.Debug("top tracks unavailable", "error", err)
	} else if len(tracks) > 0 {
		return seedSet{tracks: trackIDs(tracks, seedCount)}
	}

	if artists, err := e.service.TopArtists(ctx, seedCount, "medium_term"); err != nil {
		e.logger.Debug("top artists unavailable", "error", err)
	} else if len(artists) > 0 {
		ids := make([]string, 0, seedCount)
		for _, artist := range artists {
			if artist.ID != "" {
				ids = append(ids, artist.ID)
			}
			if len(ids) == seedCount {
				break
			}
		}
		if len(ids) > 0 {
			return seedSet{artists: ids}
		}
	}

	if history, err := e.service.RecentlyPlayed(ctx, 10); err != nil {
		e.logger.Debug("recent plays unavailable", "error", err)
	} else if len(history) > 0 {
		seen := make(map[string]bool)
		var ids []string
		for _, entry := range history {
			if entry.Track.ID == "" || seen[entry.Track.ID] {
				continue
			}
			seen[entry.Track.ID] = true
			ids = append(ids, entry.Track.ID)
			if len(ids) == seedCount {
				break
			}
		}
		if len(ids) > 0 {
			return seedSet{tracks: ids}
		}
	}

	e.logger.Info("no listening history, using genre seeds", "mood", coreMood)
	return seedSet{genres: moods.GenreSeeds(coreMood)}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func trackIDs(tracks []services.SpotifyTrack, max int) []string {
	ids := make([]string, 0, max)
	for _, track := range tracks {
		if track.ID != "" {
			ids = append(ids, track.ID)
		}
		if len(ids) == max {
			break
		}
	}
	return ids
}

func playlistName(sel moods.Selection) string {
	return fmt.Sprintf("MoodTunes — %s / %s", titleCase(sel.UIMood), sel.UIIntent)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
