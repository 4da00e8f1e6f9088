// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the Spotify PKCE authorization lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify via browser (PKCE)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Seconds to wait for the browser callback",
						Value: 120,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "refresh",
				Usage:  "Force an access token refresh",
				Action: r.AuthRefresh,
			},
			{
				Name:   "logout",
				Usage:  "Clear all stored credentials",
				Action: r.AuthLogout,
			},
		},
	}
}

// generateCommand runs the playlist generation pipeline
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a playlist for a mood and intent",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "mood"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "intent",
				Aliases: []string{"i"},
				Usage:   "What to do with the mood (turn-it-up, take-it-easy, stay-focused, change-the-mood, go-with-flow)",
				Value:   "go-with-flow",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of tracks (1-50)",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the created playlist public",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Show the track list without creating a playlist",
			},
			&cli.BoolFlag{
				Name:  "no-shuffle",
				Usage: "Keep the recommendation order",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export format: csv, markdown, json, or text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file or directory path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Generate,
	}
}

// libraryCommand surfaces the user's Spotify listening data
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse your Spotify listening data",
		Commands: []*cli.Command{
			{
				Name:  "top-tracks",
				Usage: "List your top tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of tracks to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "window",
						Usage: "Time window (short_term, medium_term, long_term)",
						Value: "medium_term",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryTopTracks,
			},
			{
				Name:  "top-artists",
				Usage: "List your top artists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of artists to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "window",
						Usage: "Time window (short_term, medium_term, long_term)",
						Value: "medium_term",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryTopArtists,
			},
			{
				Name:  "recent",
				Usage: "List recently played tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of entries to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryRecent,
			},
			{
				Name:  "search",
				Usage: "Search Spotify for tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibrarySearch,
			},
		},
	}
}

// historyCommand manages locally recorded generated playlists
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage generated playlist history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List previously generated playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "delete",
				Usage: "Remove a playlist from history (does not touch Spotify)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive generation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist generation",
		Action:  r.TUI,
	}
}
