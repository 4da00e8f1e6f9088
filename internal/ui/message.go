package ui

import "github.com/desertthunder/moodtunes/internal/generator"

// previewReadyMsg carries the preview generation outcome.
type previewReadyMsg struct {
	result *generator.Result
	err    error
}

// createCompleteMsg carries the playlist creation outcome.
type createCompleteMsg struct {
	result *generator.Result
	err    error
}

// progressUpdateMsg relays engine progress into the Elm loop.
type progressUpdateMsg generator.ProgressUpdate
