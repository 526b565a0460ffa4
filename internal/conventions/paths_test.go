package conventions_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/unblock/internal/conventions"
	"github.com/slok/unblock/internal/model"
)

func TestConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("home", "user", ".unblock", "config.yaml"), conventions.ConfigPath(filepath.Join("home", "user")))
}

func TestDefaultConfig(t *testing.T) {
	cfg := conventions.DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, conventions.DefaultPausePollInterval, cfg.PausePollInterval)
	if runtime.GOOS == "windows" {
		assert.Equal(t, model.EngineCommand, cfg.Engine)
		assert.Equal(t, "powershell", cfg.Command.Name)
	} else {
		assert.Equal(t, model.EngineNative, cfg.Engine)
	}
}
