package fake

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

// UnblockerConfig is the configuration for the fake unblocker.
type UnblockerConfig struct {
	// FailPatterns are glob patterns matched against the file base name, matching
	// files fail to unblock.
	FailPatterns []string
	// Delay is how long each unblock takes.
	Delay  time.Duration
	Logger log.Logger
}

func (c *UnblockerConfig) defaults() error {
	for _, pattern := range c.FailPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid fail pattern %q: %w", pattern, model.ErrNotValid)
		}
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay can't be negative: %w", model.ErrNotValid)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "unblocker.Fake"})
	return nil
}

// Unblocker is a fake implementation of the unblocker.Unblocker interface.
// It doesn't touch the files, only records the calls.
type Unblocker struct {
	failPatterns []string
	delay        time.Duration
	calls        []string
	mu           sync.Mutex
	logger       log.Logger
}

// NewUnblocker creates a new fake unblocker.
func NewUnblocker(cfg UnblockerConfig) (*Unblocker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Unblocker{
		failPatterns: cfg.FailPatterns,
		delay:        cfg.Delay,
		logger:       cfg.Logger,
	}, nil
}

// Unblock records the call and fails if the file matches a fail pattern.
func (u *Unblocker) Unblock(ctx context.Context, path string) error {
	u.mu.Lock()
	u.calls = append(u.calls, path)
	u.mu.Unlock()

	if u.delay > 0 {
		select {
		case <-time.After(u.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	name := filepath.Base(path)
	for _, pattern := range u.failPatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return fmt.Errorf("fake failure for %s", name)
		}
	}

	u.logger.WithCtxValues(ctx).Debugf("Fake unblocked %s", path)
	return nil
}

// Calls returns the paths received in call order.
func (u *Unblocker) Calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	calls := make([]string, len(u.calls))
	copy(calls, u.calls)
	return calls
}

// Check always passes.
func (u *Unblocker) Check(ctx context.Context) []model.CheckResult {
	return []model.CheckResult{{
		ID:      "fake_engine",
		Message: "Fake engine doesn't modify files",
		Status:  model.CheckStatusOK,
	}}
}
