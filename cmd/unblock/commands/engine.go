package commands

import (
	"fmt"

	"github.com/slok/unblock/internal/app/unblock"
	"github.com/slok/unblock/internal/expand"
	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/unblocker"
	"github.com/slok/unblock/internal/unblocker/command"
	"github.com/slok/unblock/internal/unblocker/fake"
	"github.com/slok/unblock/internal/unblocker/native"
)

// newUnblocker creates the unblock engine based on the configuration.
func newUnblocker(cfg model.Config, logger log.Logger) (unblocker.Unblocker, error) {
	var (
		u   unblocker.Unblocker
		err error
	)

	switch cfg.Engine {
	case model.EngineCommand:
		u, err = command.NewUnblocker(command.UnblockerConfig{
			Command: cfg.Command,
			Logger:  logger,
		})
	case model.EngineNative:
		u, err = native.NewUnblocker(native.UnblockerConfig{
			Logger: logger,
		})
	case model.EngineFake:
		u, err = fake.NewUnblocker(fake.UnblockerConfig{
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unknown engine %q: %w", cfg.Engine, model.ErrNotValid)
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}

// newUnblockService creates the unblock application service with all its dependencies.
func newUnblockService(cfg model.Config, logger log.Logger) (*unblock.Service, error) {
	u, err := newUnblocker(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create %s engine: %w", cfg.Engine, err)
	}

	expander, err := expand.NewExpander(expand.ExpanderConfig{
		Exclude: cfg.Exclude,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create expander: %w", err)
	}

	svc, err := unblock.NewService(unblock.ServiceConfig{
		Unblocker:    u,
		Expander:     expander,
		PollInterval: cfg.PausePollInterval,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	return svc, nil
}
