package lib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/unblock/internal/app/unblock"
	"github.com/slok/unblock/internal/conventions"
	"github.com/slok/unblock/internal/expand"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/unblocker"
	"github.com/slok/unblock/internal/unblocker/command"
	"github.com/slok/unblock/internal/unblocker/fake"
	"github.com/slok/unblock/internal/unblocker/native"
	"github.com/slok/unblock/pkg/lib/log"
)

// Config configures the SDK client.
//
// All fields are optional, an empty Config{} uses the platform default engine.
type Config struct {
	// Engine is the unblock engine.
	// Default: [EngineCommand] on Windows, [EngineNative] on the rest.
	Engine EngineType

	// Command is the command executed per file by [EngineCommand]. The `{{path}}`
	// placeholder in Args is replaced with the file path, the path is also set
	// on the UNBLOCK_FILE environment variable.
	// Default: the platform command, if any.
	Command string
	Args    []string

	// Exclude are directory name patterns (filepath.Match syntax) that are not walked.
	Exclude []string

	// PollInterval is how often a paused run checks if it can continue.
	// Default: 200ms.
	PollInterval time.Duration

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	def := conventions.DefaultConfig()

	if c.Engine == "" {
		c.Engine = EngineType(def.Engine)
	}

	if c.Engine == EngineCommand && c.Command == "" {
		c.Command = def.Command.Name
		c.Args = def.Command.Args
	}

	if c.PollInterval == 0 {
		c.PollInterval = def.PausePollInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	cfg := c.toModel()
	if err := cfg.Validate(); err != nil {
		return err
	}

	return nil
}

func (c Config) toModel() model.Config {
	return model.Config{
		Engine:            model.Engine(c.Engine),
		Command:           model.CommandConfig{Name: c.Command, Args: c.Args},
		Exclude:           c.Exclude,
		PausePollInterval: c.PollInterval,
	}
}

// Client is the main SDK entry point to unblock files.
//
// A Client is safe for concurrent use, every run is independent.
type Client struct {
	svc    *unblock.Service
	logger log.Logger
}

// New creates a new SDK client.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, mapError(fmt.Errorf("invalid config: %w", err))
	}

	u, err := newUnblocker(cfg)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create %s engine: %w", cfg.Engine, err))
	}

	expander, err := expand.NewExpander(expand.ExpanderConfig{
		Exclude: cfg.Exclude,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create expander: %w", err))
	}

	svc, err := unblock.NewService(unblock.ServiceConfig{
		Unblocker:    u,
		Expander:     expander,
		PollInterval: cfg.PollInterval,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create service: %w", err))
	}

	return &Client{svc: svc, logger: cfg.Logger}, nil
}

func newUnblocker(cfg Config) (unblocker.Unblocker, error) {
	switch cfg.Engine {
	case EngineCommand:
		u, err := command.NewUnblocker(command.UnblockerConfig{
			Command: model.CommandConfig{Name: cfg.Command, Args: cfg.Args},
			Logger:  cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	case EngineNative:
		u, err := native.NewUnblocker(native.UnblockerConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		return u, nil
	case EngineFake:
		u, err := fake.NewUnblocker(fake.UnblockerConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unknown engine %q: %w", cfg.Engine, ErrNotValid)
	}
}

// Expand returns the files that a run over the paths would unblock, in order,
// without modifying anything.
//
// Returns [ErrNoFiles] (with an empty list) when there is nothing to unblock.
func (c *Client) Expand(ctx context.Context, paths []string) ([]string, error) {
	items, err := c.svc.Expand(ctx, unblock.Request{Paths: paths})
	if err != nil {
		if errors.Is(err, model.ErrEmptySelection) {
			err = fmt.Errorf("empty selection: %w", model.ErrNoFiles)
		}
		return []string{}, mapError(err)
	}

	return items, nil
}

// Start starts a run over the paths in background.
//
// The returned [Run] events must be consumed until the channel is closed.
func (c *Client) Start(ctx context.Context, paths []string) (*Run, error) {
	r, err := c.svc.Start(ctx, unblock.Request{Paths: paths})
	if err != nil {
		return nil, mapError(err)
	}

	return newRun(r), nil
}

// Unblock runs over the paths and waits until it finishes. onEvent is called
// for every event of the run if not nil.
//
// Failing files are not an error, check [RunSummary].Failed. If ctx is cancelled
// the run is cancelled.
func (c *Client) Unblock(ctx context.Context, paths []string, onEvent func(Event)) (RunSummary, error) {
	r, err := c.Start(ctx, paths)
	if err != nil {
		return RunSummary{}, err
	}

	for ev := range r.Events() {
		if onEvent != nil {
			onEvent(ev)
		}
	}

	return r.Wait(), nil
}

// Doctor runs preflight checks for the configured engine.
func (c *Client) Doctor(ctx context.Context) []CheckResult {
	return fromInternalCheckResults(c.svc.Check(ctx))
}
