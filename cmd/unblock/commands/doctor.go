package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/printer"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	all    bool
	format string
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks for the unblock engine.")
	c.Cmd.Flag("all", "Check all the engines instead of the configured one.").BoolVar(&c.all)
	newFormatFlag(c.Cmd, &c.format)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := loadConfig(ctx, *c.rootCmd)
	if err != nil {
		return err
	}

	engines := []model.Engine{cfg.Engine}
	if c.all {
		engines = []model.Engine{model.EngineCommand, model.EngineNative}
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	failed := []model.Engine{}
	for _, engine := range engines {
		engineCfg := cfg
		engineCfg.Engine = engine

		var results []model.CheckResult
		u, err := newUnblocker(engineCfg, logger)
		if err != nil {
			// Engines that are not configured are only informative.
			status := model.CheckStatusWarning
			if engine == cfg.Engine {
				status = model.CheckStatusError
			}
			results = []model.CheckResult{{ID: "engine_config", Status: status, Message: err.Error()}}
		} else {
			results = u.Check(ctx)
		}

		if err := p.PrintChecks(string(engine), results); err != nil {
			return fmt.Errorf("could not print checks: %w", err)
		}

		switch {
		case model.HasErrors(results):
			failed = append(failed, engine)
		case model.HasWarnings(results):
			logger.Warningf("Engine %s passed the checks with warnings", engine)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("preflight checks failed for engines: %v", failed)
	}

	return nil
}
