package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/unblock/internal/app/unblock"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/printer"
	"github.com/slok/unblock/internal/utils/file"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	paths  []string
	format string
}

// NewListCommand returns the ls command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("ls", "List the files that would be unblocked without modifying them.")
	c.Cmd.Arg("paths", "Files and directories to list.").Required().StringsVar(&c.paths)
	newFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(ctx, *c.rootCmd)
	if err != nil {
		return err
	}

	svc, err := newUnblockService(cfg, c.rootCmd.Logger)
	if err != nil {
		return err
	}

	paths, err := file.AbsPaths(c.paths)
	if err != nil {
		return err
	}

	items, err := svc.Expand(ctx, unblock.Request{Paths: paths})
	if err != nil && !errors.Is(err, model.ErrNoFiles) && !errors.Is(err, model.ErrEmptySelection) {
		return fmt.Errorf("could not list files: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintWorkItems(items); err != nil {
		return fmt.Errorf("could not print files: %w", err)
	}

	return nil
}
