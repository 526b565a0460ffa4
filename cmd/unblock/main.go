package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/unblock/cmd/unblock/commands"
	"github.com/slok/unblock/internal/log"
	loglogrus "github.com/slok/unblock/internal/log/logrus"
	"github.com/slok/unblock/internal/progress"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("unblock", "Removes the downloaded from the internet mark of files and folders.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	cmds := map[string]commands.Command{}
	for _, c := range []commands.Command{
		commands.NewRunCommand(rootCmd, app),
		commands.NewListCommand(rootCmd, app),
		commands.NewUICommand(rootCmd, app),
		commands.NewDoctorCommand(rootCmd, app),
		commands.NewVersionCommand(rootCmd, app),
	} {
		cmds[c.Name()] = c
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr
	rootCmd.Version = Version

	// Logs would break the structured output and the interactive interface,
	// they can still be enabled with --debug.
	quietCommands := map[string]bool{
		"ls":      true,
		"ui":      true,
		"version": true,
	}
	if quietCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(*rootCmd)

	var g run.Group

	// A signal stops the command, `run` turns it into a cooperative run cancel.
	{
		sigC := make(chan os.Signal, 1)
		signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)
		stopC := make(chan struct{})

		g.Add(
			func() error {
				select {
				case sig := <-sigC:
					rootCmd.Logger.Infof("Signal %s received, stopping", sig)
				case <-stopC:
				}
				return nil
			},
			func(_ error) {
				signal.Stop(sigC)
				close(stopC)
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger. Logs go to stderr so they don't mix
// with the printed output.
func getLogger(config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	l := logrus.New()
	l.Out = config.Stderr
	if config.Debug {
		l.SetLevel(logrus.DebugLevel)
	}

	switch config.LoggerType {
	case commands.LoggerTypeJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		color := !config.NoColor && isTerminal(config.Stderr)
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:   color,
			DisableColors: !color,
		})
	}

	logger := loglogrus.NewLogrus(logrus.NewEntry(l)).WithValues(log.Kv{"version": Version})
	logger.Debugf("Debug level is enabled")

	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && progress.IsTerminal(f)
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
