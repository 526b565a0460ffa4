package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/unblock/internal/tui"
	"github.com/slok/unblock/internal/utils/file"
)

type UICommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	paths []string
}

// NewUICommand returns the ui command.
func NewUICommand(rootCmd *RootCommand, app *kingpin.Application) *UICommand {
	c := &UICommand{rootCmd: rootCmd}

	c.Cmd = app.Command("ui", "Interactive terminal interface to select, unblock and follow the progress.")
	c.Cmd.Arg("paths", "Initial selection of files and directories.").StringsVar(&c.paths)

	return c
}

func (c UICommand) Name() string { return c.Cmd.FullCommand() }

func (c UICommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := loadConfig(ctx, *c.rootCmd)
	if err != nil {
		return err
	}

	svc, err := newUnblockService(cfg, logger)
	if err != nil {
		return err
	}

	paths, err := file.AbsPaths(c.paths)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(ctx, tui.ModelConfig{
		Starter: tui.NewServiceStarter(svc),
		Paths:   paths,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create interface: %w", err)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(c.rootCmd.Stdin),
		tea.WithOutput(c.rootCmd.Stdout),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		// Killed by a termination signal.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("interface failed: %w", err)
	}

	return nil
}
