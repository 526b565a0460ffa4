package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/unblock/internal/app/unblock"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/printer"
	"github.com/slok/unblock/internal/progress"
	"github.com/slok/unblock/internal/utils/file"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	paths  []string
	format string
	dryRun bool
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Unblock the selected files and all the files inside the selected directories.")
	c.Cmd.Arg("paths", "Files and directories to unblock.").Required().StringsVar(&c.paths)
	c.Cmd.Flag("dry-run", "Process the files without unblocking them.").BoolVar(&c.dryRun)
	newFormatFlag(c.Cmd, &c.format)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := loadConfig(ctx, *c.rootCmd)
	if err != nil {
		return err
	}
	if c.dryRun {
		logger.Infof("Dry run, files will not be modified")
		cfg.Engine = model.EngineFake
	}

	svc, err := newUnblockService(cfg, logger)
	if err != nil {
		return err
	}

	paths, err := file.AbsPaths(c.paths)
	if err != nil {
		return err
	}

	r, err := svc.NewRun(unblock.Request{Paths: paths})
	if err != nil {
		return fmt.Errorf("could not create run: %w", err)
	}

	// The run has its own context so a termination signal cancels it between
	// files instead of interrupting the file being unblocked.
	runCtx, runCancel := context.WithCancel(context.WithoutCancel(ctx))
	defer runCancel()
	go func() {
		select {
		case <-ctx.Done():
			logger.Infof("Cancelling run %s", r.ID())
			r.Cancel()
		case <-r.Done():
		}
	}()

	if err := r.Start(runCtx); err != nil {
		return fmt.Errorf("could not start run: %w", err)
	}

	var p printer.Printer
	reporter := progress.Reporter(progress.NoopReporter)
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
		if f, ok := c.rootCmd.Stderr.(*os.File); ok {
			reporter = progress.NewReporter(f)
		}
	}

	started := false
	for ev := range r.Events() {
		switch ev.Kind {
		case model.EventKindProgress:
			if !started {
				reporter.Start(r.Summary().Total)
				started = true
			}
			reporter.Update(ev.Percent)
		case model.EventKindFinished:
			reporter.Finish()
		}

		if err := p.PrintEvent(ev); err != nil {
			return fmt.Errorf("could not print event: %w", err)
		}
	}

	summary := r.Wait()
	if c.format != formatJSON {
		if err := p.PrintSummary(summary); err != nil {
			return fmt.Errorf("could not print summary: %w", err)
		}
	}

	switch {
	case summary.State == model.RunStateCancelled:
		return fmt.Errorf("run cancelled after %d of %d files", summary.Processed, summary.Total)
	case summary.Failed > 0:
		return fmt.Errorf("%d of %d files could not be unblocked", summary.Failed, summary.Total)
	}

	return nil
}
