package unblock

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/unblock/internal/expand"
	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/unblocker"
)

const (
	defaultPollInterval = 200 * time.Millisecond
	defaultEventBuffer  = 64
)

// Expander knows how to flatten a selection into a work item list.
type Expander interface {
	Expand(ctx context.Context, paths []string, opts expand.Options) (model.WorkItemList, error)
}

// ServiceConfig is the configuration for the unblock service.
type ServiceConfig struct {
	Unblocker unblocker.Unblocker
	// Expander is optional, by default an expander without exclusions is used.
	Expander Expander
	// PollInterval is how often a paused run checks if it has been resumed or cancelled.
	PollInterval time.Duration
	// EventBuffer is the size of the run events channel buffer.
	EventBuffer int
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Unblocker == nil {
		return fmt.Errorf("unblocker is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Unblock"})

	if c.Expander == nil {
		e, err := expand.NewExpander(expand.ExpanderConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create expander: %w", err)
		}
		c.Expander = e
	}

	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}

	if c.EventBuffer <= 0 {
		c.EventBuffer = defaultEventBuffer
	}

	return nil
}

// Service creates and starts unblock runs.
type Service struct {
	unblocker    unblocker.Unblocker
	expander     Expander
	pollInterval time.Duration
	eventBuffer  int
	logger       log.Logger
}

// NewService creates a new unblock service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		unblocker:    cfg.Unblocker,
		expander:     cfg.Expander,
		pollInterval: cfg.PollInterval,
		eventBuffer:  cfg.EventBuffer,
		logger:       cfg.Logger,
	}, nil
}

// Request contains the parameters for an unblock run.
type Request struct {
	// Paths is the user selection of files and directories.
	Paths []string
}

// NewRun creates a pending run, it will not do anything until started.
func (s *Service) NewRun(req Request) (*Run, error) {
	uid, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("could not generate run id: %w", err)
	}
	id := uid.String()

	paths := make([]string, len(req.Paths))
	copy(paths, req.Paths)

	return &Run{
		id:           id,
		paths:        paths,
		unblocker:    s.unblocker,
		expander:     s.expander,
		pollInterval: s.pollInterval,
		logger:       s.logger.WithValues(log.Kv{"run-id": id}),
		state:        model.RunStatePending,
		summary:      model.RunSummary{ID: id, State: model.RunStatePending},
		events:       make(chan model.Event, s.eventBuffer),
		done:         make(chan struct{}),
	}, nil
}

// Start creates and starts a run.
func (s *Service) Start(ctx context.Context, req Request) (*Run, error) {
	r, err := s.NewRun(req)
	if err != nil {
		return nil, fmt.Errorf("could not create run: %w", err)
	}

	if err := r.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start run: %w", err)
	}

	return r, nil
}

// Check returns the preflight checks of the configured unblocker.
func (s *Service) Check(ctx context.Context) []model.CheckResult {
	return s.unblocker.Check(ctx)
}

// Expand returns the work item list of a selection without unblocking anything.
func (s *Service) Expand(ctx context.Context, req Request) (model.WorkItemList, error) {
	items, err := s.expander.Expand(ctx, req.Paths, expand.Options{})
	if err != nil {
		if errors.Is(err, model.ErrEmptySelection) || errors.Is(err, model.ErrNoFiles) {
			return model.WorkItemList{}, err
		}
		return nil, fmt.Errorf("could not expand selection: %w", err)
	}

	return items, nil
}
