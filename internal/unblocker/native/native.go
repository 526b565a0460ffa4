// Package native implements an unblocker that removes the download marker in-process
// without running external commands.
//
// Windows stores the marker in the Zone.Identifier alternate data stream, macOS in the
// com.apple.quarantine extended attribute and Linux browsers in the user.xdg.origin.url
// and user.xdg.referrer.url extended attributes.
package native

import (
	"context"
	"fmt"

	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

// UnblockerConfig is the configuration for the native unblocker.
type UnblockerConfig struct {
	Logger log.Logger
}

func (c *UnblockerConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "unblocker.Native"})
	return nil
}

// Unblocker removes the download marker using OS APIs.
type Unblocker struct {
	logger log.Logger
}

// NewUnblocker returns a new native unblocker.
func NewUnblocker(cfg UnblockerConfig) (*Unblocker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Unblocker{logger: cfg.Logger}, nil
}

// Unblock removes the marker of the file, a file without marker is not an error.
func (u *Unblocker) Unblock(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	removed, err := removeMarker(path)
	if err != nil {
		return err
	}

	if removed {
		u.logger.WithCtxValues(ctx).Debugf("Removed download marker from %s", path)
	}
	return nil
}

// Check checks the platform is supported.
func (u *Unblocker) Check(ctx context.Context) []model.CheckResult {
	return []model.CheckResult{checkPlatform()}
}
