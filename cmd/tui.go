package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/desertthunder/moodtunes/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist generation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file before wiring services so the engine's logger
	// does not interfere with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/moodtunes-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.initServices(); err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, r.config.Generator.Limit, r.config.Generator.Public)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
