package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/unblock/internal/conventions"
	"github.com/slok/unblock/internal/model"
)

// ConfigYAMLRepository loads the application configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads the configuration from a YAML file on top of the default configuration
// and returns a validated domain model. A missing file returns model.ErrNotFound.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.Config, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Config{}, fmt.Errorf("config file %s: %w", path, model.ErrNotFound)
		}
		return model.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Config{}, ctx.Err()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parsing YAML: %w", err)
	}

	mcfg, err := cfg.toModel(conventions.DefaultConfig())
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := mcfg.Validate(); err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return mcfg, nil
}

// Config represents the YAML structure for the configuration.
type Config struct {
	Engine            string         `yaml:"engine"`
	Command           *CommandConfig `yaml:"command,omitempty"`
	Exclude           []string       `yaml:"exclude"`
	PausePollInterval string         `yaml:"pause_poll_interval"`
}

// CommandConfig represents the YAML structure for the command engine configuration.
type CommandConfig struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

func (c Config) toModel(base model.Config) (model.Config, error) {
	cfg := base

	if c.Engine != "" {
		cfg.Engine = model.Engine(c.Engine)
	}

	// A configured command replaces the default one completely.
	if c.Command != nil && c.Command.Name != "" {
		cfg.Command = model.CommandConfig{
			Name: c.Command.Name,
			Args: c.Command.Args,
		}
	}

	if len(c.Exclude) > 0 {
		cfg.Exclude = c.Exclude
	}

	if c.PausePollInterval != "" {
		d, err := time.ParseDuration(c.PausePollInterval)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid pause_poll_interval %q: %w", c.PausePollInterval, model.ErrNotValid)
		}
		if d <= 0 {
			return model.Config{}, fmt.Errorf("pause_poll_interval must be positive, got: %s: %w", d, model.ErrNotValid)
		}
		cfg.PausePollInterval = d
	}

	return cfg, nil
}
