package lib

import (
	"github.com/slok/unblock/internal/app/unblock"
)

// Run is a batch unblock execution running in background.
type Run struct {
	run    *unblock.Run
	events chan Event
}

func newRun(r *unblock.Run) *Run {
	events := make(chan Event, cap(r.Events()))
	go func() {
		defer close(events)
		for ev := range r.Events() {
			events <- fromInternalEvent(ev)
		}
	}()

	return &Run{run: r, events: events}
}

// ID returns the run unique ID.
func (r *Run) ID() string { return r.run.ID() }

// Events returns the run events channel. It's closed after the [EventKindFinished] event.
func (r *Run) Events() <-chan Event { return r.events }

// State returns the current run state.
func (r *Run) State() RunState { return RunState(r.run.State()) }

// Pause stops the run before the next file. The file being unblocked is not interrupted.
func (r *Run) Pause() { r.run.Pause() }

// Resume continues a paused run.
func (r *Run) Resume() { r.run.Resume() }

// Cancel stops the run before the next file, paused runs are cancelled too.
func (r *Run) Cancel() { r.run.Cancel() }

// Wait blocks until the run finishes and returns its summary.
func (r *Run) Wait() RunSummary { return fromInternalSummary(r.run.Wait()) }
