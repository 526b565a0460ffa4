package conventions

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/unblocker/command"
)

const (
	// DefaultDataDir is the default unblock directory name (relative to home).
	DefaultDataDir = ".unblock"
	// ConfigFile is the configuration filename inside the data directory.
	ConfigFile = "config.yaml"
	// DefaultPausePollInterval is how often a paused run checks if it can continue.
	DefaultPausePollInterval = 200 * time.Millisecond
)

// ConfigPath returns the default configuration file path.
func ConfigPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir, ConfigFile)
}

// DefaultEngine returns the engine used when none is configured. Windows uses
// PowerShell Unblock-File, the rest remove extended attributes in-process.
func DefaultEngine() model.Engine {
	if runtime.GOOS == "windows" {
		return model.EngineCommand
	}
	return model.EngineNative
}

// DefaultConfig returns the configuration used when there is no configuration file.
func DefaultConfig() model.Config {
	cmd, _ := command.DefaultCommand()
	return model.Config{
		Engine:            DefaultEngine(),
		Command:           cmd,
		PausePollInterval: DefaultPausePollInterval,
	}
}
