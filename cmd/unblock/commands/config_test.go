package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/unblock/internal/conventions"
	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

func TestLoadConfig(t *testing.T) {
	tests := map[string]struct {
		config string
		engine string
		expCfg func() model.Config
		expErr error
	}{
		"A missing config file should use the defaults": {
			expCfg: conventions.DefaultConfig,
		},

		"A missing config file with an engine flag should use the flag engine": {
			engine: "fake",
			expCfg: func() model.Config {
				cfg := conventions.DefaultConfig()
				cfg.Engine = model.EngineFake
				return cfg
			},
		},

		"A config file should be loaded": {
			config: "engine: fake\nexclude: [\".git\"]\npause_poll_interval: 1s\n",
			expCfg: func() model.Config {
				cfg := conventions.DefaultConfig()
				cfg.Engine = model.EngineFake
				cfg.Exclude = []string{".git"}
				cfg.PausePollInterval = time.Second
				return cfg
			},
		},

		"The engine flag should have precedence over the config file": {
			config: "engine: fake\ncommand:\n  name: my-cmd\n",
			engine: "command",
			expCfg: func() model.Config {
				cfg := conventions.DefaultConfig()
				cfg.Engine = model.EngineCommand
				cfg.Command = model.CommandConfig{Name: "my-cmd"}
				return cfg
			},
		},

		"An invalid config file should fail": {
			config: "pause_poll_interval: -1s\n",
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if test.config != "" {
				require.NoError(t, os.WriteFile(path, []byte(test.config), 0o644))
			}

			cfg, err := loadConfig(context.Background(), RootCommand{
				ConfigPath: path,
				Engine:     test.engine,
				Logger:     log.Noop,
			})

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expCfg(), cfg)
		})
	}
}

func TestNewUnblocker(t *testing.T) {
	tests := map[string]struct {
		cfg    model.Config
		expErr bool
	}{
		"Fake engine should be created": {
			cfg: model.Config{Engine: model.EngineFake},
		},

		"Native engine should be created": {
			cfg: model.Config{Engine: model.EngineNative},
		},

		"Command engine should be created": {
			cfg: model.Config{Engine: model.EngineCommand, Command: model.CommandConfig{Name: "true"}},
		},

		"Unknown engine should fail": {
			cfg:    model.Config{Engine: "magic"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			u, err := newUnblocker(test.cfg, log.Noop)
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, u)
		})
	}
}
