package unblock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/slok/unblock/internal/expand"
	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/unblocker"
)

// Run is a single batch execution over a selection.
//
// The work happens on one goroutine that processes the files sequentially. Pause,
// Resume and Cancel only set flags that the worker checks between files, a file
// being unblocked is never interrupted. All the run notifications are sent on the
// Events channel, that must be consumed until it's closed.
type Run struct {
	id           string
	paths        []string
	unblocker    unblocker.Unblocker
	expander     Expander
	pollInterval time.Duration
	logger       log.Logger

	paused    atomic.Bool
	cancelled atomic.Bool

	mu      sync.Mutex
	state   model.RunState
	summary model.RunSummary

	events chan model.Event
	done   chan struct{}
}

// ID returns the run ID.
func (r *Run) ID() string { return r.id }

// Events returns the run notifications channel, it's closed after the finished event.
func (r *Run) Events() <-chan model.Event { return r.events }

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// State returns the current run state.
func (r *Run) State() model.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Summary returns a snapshot of the run summary.
func (r *Run) Summary() model.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Wait blocks until the run has finished and returns its summary.
func (r *Run) Wait() model.RunSummary {
	<-r.done
	return r.Summary()
}

// Start starts the run in background.
func (r *Run) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != model.RunStatePending {
		r.mu.Unlock()
		return fmt.Errorf("run %s is %s: %w", r.id, r.state, model.ErrNotValid)
	}
	r.state = model.RunStateRunning
	r.summary.State = model.RunStateRunning
	r.summary.StartedAt = time.Now().UTC()
	r.mu.Unlock()

	// If the run was paused before starting, respect it.
	if r.paused.Load() {
		r.setState(model.RunStateRunning, model.RunStatePaused)
	}

	ctx = r.logger.SetValuesOnCtx(ctx, log.Kv{"run-id": r.id})
	go r.run(ctx)

	return nil
}

// Pause stops the run from progressing to the next file.
func (r *Run) Pause() {
	r.paused.Store(true)
	r.setState(model.RunStateRunning, model.RunStatePaused)
}

// Resume resumes a paused run.
func (r *Run) Resume() {
	r.paused.Store(false)
	r.setState(model.RunStatePaused, model.RunStateRunning)
}

// Cancel requests the run to stop before the next file.
func (r *Run) Cancel() {
	r.cancelled.Store(true)
}

// setState moves the run from one state to another, only if the run is on the
// expected state.
func (r *Run) setState(from, to model.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == from && r.state.CanTransitionTo(to) {
		r.state = to
		r.summary.State = to
	}
}

func (r *Run) cancelRequested(ctx context.Context) bool {
	return r.cancelled.Load() || ctx.Err() != nil
}

func (r *Run) run(ctx context.Context) {
	defer close(r.done)
	defer close(r.events)

	r.logger.Debugf("Run started with %d selected paths", len(r.paths))

	if r.cancelRequested(ctx) {
		r.finishCancelled(ctx)
		return
	}

	items, err := r.expander.Expand(ctx, r.paths, expand.Options{Cancelled: r.cancelled.Load})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptySelection), errors.Is(err, model.ErrNoFiles):
			r.emit(ctx, model.Event{Kind: model.EventKindStatus, Message: model.MsgNoFiles})
			r.finish(ctx, model.RunStateCompleted)
		case r.cancelRequested(ctx):
			r.finishCancelled(ctx)
		default:
			r.logger.Errorf("Could not expand selection: %s", err)
			r.emit(ctx, model.Event{Kind: model.EventKindError, Err: err, Message: fmt.Sprintf("Error: could not expand selection -> %s", err)})
			r.emit(ctx, model.Event{Kind: model.EventKindStatus, Message: model.MsgNoFiles})
			r.finish(ctx, model.RunStateCompleted)
		}
		return
	}

	total := len(items)
	r.mu.Lock()
	r.summary.Total = total
	r.mu.Unlock()
	r.logger.Infof("Unblocking %d files", total)

	for i, path := range items {
		if r.cancelRequested(ctx) {
			r.finishCancelled(ctx)
			return
		}

		r.waitWhilePaused(ctx)
		if r.cancelRequested(ctx) {
			r.finishCancelled(ctx)
			return
		}

		err := r.unblock(ctx, path)

		r.mu.Lock()
		r.summary.Processed++
		if err != nil {
			r.summary.Failed++
		} else {
			r.summary.Succeeded++
		}
		r.mu.Unlock()

		if err != nil {
			r.logger.Warningf("Could not unblock %s: %s", path, err)
			r.emit(ctx, model.Event{Kind: model.EventKindError, Path: path, Err: err, Message: model.ErrorMessage(path, err)})
		} else {
			r.emit(ctx, model.Event{Kind: model.EventKindStatus, Path: path, Message: model.ProcessedMessage(path)})
		}

		r.emit(ctx, model.Event{Kind: model.EventKindProgress, Path: path, Percent: model.Percent(i+1, total)})
	}

	r.emit(ctx, model.Event{Kind: model.EventKindStatus, Message: model.MsgCompleted})
	r.finish(ctx, model.RunStateCompleted)
}

// waitWhilePaused polls the pause flag until the run is resumed or cancelled.
func (r *Run) waitWhilePaused(ctx context.Context) {
	if !r.paused.Load() {
		return
	}

	r.logger.Debugf("Run paused")
	t := time.NewTicker(r.pollInterval)
	defer t.Stop()

	for r.paused.Load() && !r.cancelRequested(ctx) {
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
	r.logger.Debugf("Run resumed")
}

// unblock runs the unblocker converting panics into errors, a bad file
// must never stop the batch.
func (r *Run) unblock(ctx context.Context, path string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unblocker panicked: %v", rec)
		}
	}()

	return r.unblocker.Unblock(ctx, path)
}

func (r *Run) finishCancelled(ctx context.Context) {
	r.logger.Infof("Run cancelled")
	r.emit(ctx, model.Event{Kind: model.EventKindStatus, Message: model.MsgCancelled})
	r.finish(ctx, model.RunStateCancelled)
}

func (r *Run) finish(ctx context.Context, state model.RunState) {
	r.mu.Lock()
	if !r.state.CanTransitionTo(state) {
		r.logger.Warningf("Unexpected run state transition %s -> %s", r.state, state)
	}
	r.state = state
	r.summary.State = state
	r.summary.FinishedAt = time.Now().UTC()
	summary := r.summary
	r.mu.Unlock()

	r.logger.Debugf("Run finished as %s (%d succeeded, %d failed)", state, summary.Succeeded, summary.Failed)
	r.emit(ctx, model.Event{Kind: model.EventKindFinished, Summary: &summary})
}

// emit sends an event, if the consumer is not reading and the context is done
// the event is dropped so the worker can end.
func (r *Run) emit(ctx context.Context, ev model.Event) {
	ev.RunID = r.id

	select {
	case r.events <- ev:
		return
	default:
	}

	select {
	case r.events <- ev:
	case <-ctx.Done():
		r.logger.Warningf("Dropped %s event, context done", ev.Kind)
	}
}
