package model

import (
	"fmt"
	"time"
)

// Engine is the implementation used to unblock files.
type Engine string

const (
	// EngineCommand runs an external command per file.
	EngineCommand Engine = "command"
	// EngineNative removes the marker in-process (alternate data stream or extended attributes).
	EngineNative Engine = "native"
	// EngineFake doesn't touch files, used for dry runs and testing.
	EngineFake Engine = "fake"
)

// Valid returns true if the engine is a known one.
func (e Engine) Valid() bool {
	switch e {
	case EngineCommand, EngineNative, EngineFake:
		return true
	default:
		return false
	}
}

// CommandConfig is the external command used by the command engine.
type CommandConfig struct {
	// Name is the binary name or path.
	Name string
	// Args are the arguments, `{{path}}` is replaced with the file path.
	Args []string
}

// Config is the application configuration.
type Config struct {
	Engine            Engine
	Command           CommandConfig
	Exclude           []string
	PausePollInterval time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if !c.Engine.Valid() {
		return fmt.Errorf("unknown engine %q: %w", c.Engine, ErrNotValid)
	}

	if c.Engine == EngineCommand && c.Command.Name == "" {
		return fmt.Errorf("command engine requires a command name: %w", ErrNotValid)
	}

	if c.PausePollInterval < 0 {
		return fmt.Errorf("pause poll interval can't be negative: %w", ErrNotValid)
	}

	return nil
}
