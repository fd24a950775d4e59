package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ken-ho/squatx/internal/shared"
	"github.com/ken-ho/squatx/internal/ui"
	"github.com/urfave/cli/v3"
)

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse workout sessions in an interactive terminal UI",
		Action: r.TUI,
	}
}

// TUI launches the interactive terminal UI for session history.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil || r.engine == nil {
		return fmt.Errorf("%w: analysis engine not initialized", shared.ErrServiceUnavailable)
	}

	if _, err := r.gate.RequireIdentity(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/squatx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, r.history, r.config.History.Limit, r.config.API.DefaultFPS)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
