package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList lists locally recorded generated playlists.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	playlists, err := r.history.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("json") {
		entries := make([]map[string]any, len(playlists))
		for i, p := range playlists {
			entries[i] = map[string]any{
				"id":          p.ID(),
				"sequence":    p.Sequence(),
				"spotify_id":  p.SpotifyID(),
				"name":        p.Name(),
				"mood":        p.Mood(),
				"intent":      p.Intent(),
				"track_count": p.TrackCount(),
				"created_at":  p.CreatedAt(),
			}
		}
		return r.writeJSON(entries, true)
	}

	if len(playlists) == 0 {
		r.writePlain("No playlists generated yet. Run 'moodtunes generate <mood>' first.\n")
		return nil
	}

	r.writePlain("Generated playlists (%d):\n\n", len(playlists))
	for _, p := range playlists {
		r.writePlain("#%d %s\n", p.Sequence(), p.Name())
		r.writePlain("   ID: %s\n", p.ID())
		r.writePlain("   Mood: %s / %s\n", p.Mood(), p.Intent())
		r.writePlain("   Tracks: %d\n", p.TrackCount())
		r.writePlain("   Created: %s\n\n", p.CreatedAt().Format("2006-01-02 15:04"))
	}

	return nil
}

// HistoryDelete soft deletes a history record. The Spotify playlist is untouched.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	if err := r.history.Delete(id); err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
		}
		return fmt.Errorf("failed to delete history record: %w", err)
	}

	r.writePlain("✓ Removed %s from history\n", id)
	return nil
}
