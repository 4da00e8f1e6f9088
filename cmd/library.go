package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryTopTracks lists the user's top tracks for a time window.
func (r *Runner) LibraryTopTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	window := cmd.String("window")

	tracks, err := r.service.TopTracks(ctx, limit, window)
	if err != nil {
		return fmt.Errorf("failed to fetch top tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("Top %d tracks (%s):\n\n", len(tracks), window)
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistNames(), track.Name)
		if track.Album.Name != "" {
			r.writePlain("   Album: %s\n", track.Album.Name)
		}
	}

	return nil
}

// LibraryTopArtists lists the user's top artists for a time window.
func (r *Runner) LibraryTopArtists(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	window := cmd.String("window")

	artists, err := r.service.TopArtists(ctx, limit, window)
	if err != nil {
		return fmt.Errorf("failed to fetch top artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	r.writePlain("Top %d artists (%s):\n\n", len(artists), window)
	for i, artist := range artists {
		r.writePlain("%d. %s\n", i+1, artist.Name)
		if len(artist.Genres) > 0 {
			r.writePlain("   Genres: %v\n", artist.Genres)
		}
	}

	return nil
}

// LibraryRecent lists recently played tracks.
func (r *Runner) LibraryRecent(ctx context.Context, cmd *cli.Command) error {
	if err := r.initServices(); err != nil {
		return err
	}

	limit := cmd.Int("limit")

	history, err := r.service.RecentlyPlayed(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch recently played: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(history, true)
	}

	r.writePlain("Recently played (%d entries):\n\n", len(history))
	for i, entry := range history {
		r.writePlain("%d. %s - %s\n", i+1, entry.Track.ArtistNames(), entry.Track.Name)
		if entry.PlayedAt != "" {
			r.writePlain("   Played: %s\n", entry.PlayedAt)
		}
	}

	return nil
}

// LibrarySearch searches Spotify for tracks matching a query.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if err := r.initServices(); err != nil {
		return err
	}

	limit := cmd.Int("limit")

	tracks, err := r.service.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("Found %d tracks for %q:\n\n", len(tracks), query)
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistNames(), track.Name)
		r.writePlain("   URI: %s\n", track.URI)
	}

	return nil
}
