package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodtunes/internal/formatter"
	"github.com/desertthunder/moodtunes/internal/generator"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// Generate runs the full generation pipeline for a mood and intent.
//
// By default the playlist is created on Spotify; --preview stops after
// fetching and shuffling recommendations.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	mood := cmd.StringArg("mood")
	if mood == "" {
		return fmt.Errorf("%w: mood argument is required (happy, sad, chill, focus, ...)", shared.ErrMissingArgument)
	}

	if err := r.initServices(); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit == 0 {
		limit = r.config.Generator.Limit
	}

	public := cmd.Bool("public") || r.config.Generator.Public

	params := generator.Params{
		Mood:    mood,
		Intent:  cmd.String("intent"),
		Limit:   limit,
		Public:  public,
		Create:  !cmd.Bool("preview"),
		Shuffle: !cmd.Bool("no-shuffle"),
	}

	progress := make(chan generator.ProgressUpdate, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.engine.Generate(ctx, progress, params)
	close(progress)
	<-drained
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if format := cmd.String("export"); format != "" {
		if err := r.exportResult(result, format, cmd.String("output")); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", result.Name)
	r.writePlain("Mood: %s / %s", result.Selection.CoreMood, result.Selection.CoreIntent)
	if result.Selection.MoodChanged {
		r.writePlain(" (flipped from %s)", result.Selection.UIMood)
	}
	r.writePlain("\nTracks: %d\n\n", len(result.Tracks))

	for i, track := range result.Tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistNames(), track.Name)
	}

	if result.Playlist != nil {
		r.writePlainln("✓ Playlist created on Spotify")
		r.writePlain("Added: %d tracks\n", result.Added)
		if result.Playlist.ExternalURL.Spotify != "" {
			r.writePlain("Open: %s\n", result.Playlist.ExternalURL.Spotify)
		}
	} else {
		r.writePlainln("Preview only. Drop --preview to create the playlist.")
	}

	return nil
}

// exportResult writes the generated playlist to disk in the requested format.
func (r *Runner) exportResult(result *generator.Result, format, output string) error {
	export := &formatter.PlaylistExport{
		Name:        result.Name,
		Description: result.Description,
		Mood:        result.Selection.CoreMood,
		Intent:      result.Selection.CoreIntent,
		Tracks:      result.Tracks,
	}
	if result.Playlist != nil {
		export.ID = result.Playlist.ID
		export.Public = result.Playlist.Public
	} else {
		export.ID = fmt.Sprintf("%s_%s", result.Selection.CoreMood, result.Selection.CoreIntent)
	}

	switch format {
	case "csv":
		files, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s and %s\n", files.TracksFile, files.MetadataFile)
	case "markdown", "md":
		dir, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", dir.Directory)
	case "json":
		path, err := formatter.WriteJSONExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", path)
	case "text", "txt":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
