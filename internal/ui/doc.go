// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [MoodView] : Pick a mood
//  2. [IntentView] : Pick an intent
//  3. [GeneratingView] : Monitor real-time progress updates
//  4. [PreviewView] : Browse the generated tracks
//  5. [ConfirmView] : Confirm playlist creation
//  6. [ResultView] : Display the created playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the generator engine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
