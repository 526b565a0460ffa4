// Package command implements an unblocker that runs an external command per file.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

const (
	// PathPlaceholder is replaced by the file path on the command arguments.
	PathPlaceholder = "{{path}}"
	// PathEnvVar is the env var that has the file path on the command environment.
	PathEnvVar = "UNBLOCK_FILE"

	maxStderrLen = 512
)

// UnblockerConfig is the configuration for the command unblocker.
type UnblockerConfig struct {
	Command model.CommandConfig
	Logger  log.Logger

	// Used for testing.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
	lookPath    func(file string) (string, error)
}

func (c *UnblockerConfig) defaults() error {
	if c.Command.Name == "" {
		def, ok := DefaultCommand()
		if !ok {
			return fmt.Errorf("command is required on this platform: %w", model.ErrNotValid)
		}
		c.Command = def
	}

	if c.execCommand == nil {
		c.execCommand = exec.CommandContext
	}

	if c.lookPath == nil {
		c.lookPath = exec.LookPath
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "unblocker.Command"})
	return nil
}

// Unblocker runs an external command for each file.
type Unblocker struct {
	cmd         model.CommandConfig
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
	lookPath    func(file string) (string, error)
	logger      log.Logger
}

// NewUnblocker returns a new command unblocker.
func NewUnblocker(cfg UnblockerConfig) (*Unblocker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Unblocker{
		cmd:         cfg.Command,
		execCommand: cfg.execCommand,
		lookPath:    cfg.lookPath,
		logger:      cfg.Logger,
	}, nil
}

// Command returns the configured command.
func (u *Unblocker) Command() model.CommandConfig { return u.cmd }

// Unblock runs the command for the file. A non zero exit code is a failure.
func (u *Unblocker) Unblock(ctx context.Context, path string) error {
	args := make([]string, 0, len(u.cmd.Args))
	for _, arg := range u.cmd.Args {
		args = append(args, strings.ReplaceAll(arg, PathPlaceholder, path))
	}

	cmd := u.execCommand(ctx, u.cmd.Name, args...)
	cmd.Env = append(os.Environ(), PathEnvVar+"="+path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	u.logger.WithCtxValues(ctx).Debugf("Running %s %v", u.cmd.Name, args)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	msg := truncate(strings.TrimSpace(stderr.String()), maxStderrLen)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg == "" {
			return fmt.Errorf("%s exited with code %d", u.cmd.Name, exitErr.ExitCode())
		}
		return fmt.Errorf("%s exited with code %d: %s", u.cmd.Name, exitErr.ExitCode(), msg)
	}

	return fmt.Errorf("could not run %s: %w", u.cmd.Name, err)
}

// Check checks the command binary is available.
func (u *Unblocker) Check(ctx context.Context) []model.CheckResult {
	path, err := u.lookPath(u.cmd.Name)
	if err != nil {
		return []model.CheckResult{{
			ID:      "command_available",
			Message: fmt.Sprintf("%s not found: %v", u.cmd.Name, err),
			Status:  model.CheckStatusError,
		}}
	}

	results := []model.CheckResult{{
		ID:      "command_available",
		Message: fmt.Sprintf("%s found at %s", u.cmd.Name, path),
		Status:  model.CheckStatusOK,
	}}

	if !u.usesPath() {
		results = append(results, model.CheckResult{
			ID:      "command_path",
			Message: fmt.Sprintf("Arguments don't use %s or %s, every file will run the same command", PathPlaceholder, PathEnvVar),
			Status:  model.CheckStatusWarning,
		})
	}

	return results
}

func (u *Unblocker) usesPath() bool {
	for _, arg := range u.cmd.Args {
		if strings.Contains(arg, PathPlaceholder) || strings.Contains(arg, PathEnvVar) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
