package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
	"github.com/desertthunder/cinefav/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	var catalog services.Catalog
	if c, err := r.catalogClient(); err == nil {
		catalog = c
	} else {
		r.logger.Warn("search disabled", "error", err)
	}

	updates := make(chan tasks.Update, 32)
	controller, err := r.newController(updates)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, controller, catalog, updates)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand launches the interactive interface.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse favorites and lists interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the UI is running",
				Value: "./tmp/cinefav-tui.log",
			},
		},
		Action: r.TUI,
	}
}
