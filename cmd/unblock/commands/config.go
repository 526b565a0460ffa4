package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/unblock/internal/conventions"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/storage"
	"github.com/slok/unblock/internal/storage/io"
	"github.com/slok/unblock/internal/utils/file"
)

// loadConfig loads the configuration file and applies the global flag overrides.
// A missing configuration file is not an error, the platform defaults are used.
func loadConfig(ctx context.Context, rootCmd RootCommand) (model.Config, error) {
	logger := rootCmd.Logger

	fsys, name, err := file.DirFS(rootCmd.ConfigPath)
	if err != nil {
		return model.Config{}, fmt.Errorf("could not resolve config path: %w", err)
	}

	var repo storage.ConfigRepository = io.NewConfigYAMLRepository(fsys)
	cfg, err := repo.GetConfig(ctx, name)
	switch {
	case errors.Is(err, model.ErrNotFound):
		logger.Debugf("Config file %s missing, using defaults", rootCmd.ConfigPath)
		cfg = conventions.DefaultConfig()
	case err != nil:
		return model.Config{}, fmt.Errorf("could not load config: %w", err)
	default:
		logger.Debugf("Config loaded from %s", rootCmd.ConfigPath)
	}

	if rootCmd.Engine != "" {
		cfg.Engine = model.Engine(rootCmd.Engine)
	}

	if err := cfg.Validate(); err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
