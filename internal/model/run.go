package model

import (
	"fmt"
	"time"
)

// RunState represents the state of a batch unblock run.
type RunState string

const (
	RunStatePending   RunState = "pending"
	RunStateRunning   RunState = "running"
	RunStatePaused    RunState = "paused"
	RunStateCancelled RunState = "cancelled"
	RunStateCompleted RunState = "completed"
)

// IsTerminal returns true when the run can't change state anymore.
func (r RunState) IsTerminal() bool {
	return r == RunStateCancelled || r == RunStateCompleted
}

// CanTransitionTo returns true if the state machine allows moving to the target state.
func (r RunState) CanTransitionTo(target RunState) bool {
	switch r {
	case RunStatePending:
		return target == RunStateRunning || target == RunStateCancelled
	case RunStateRunning:
		return target == RunStatePaused || target == RunStateCancelled || target == RunStateCompleted
	case RunStatePaused:
		// A pause requested during the last file doesn't hold the completion.
		return target == RunStateRunning || target == RunStateCancelled || target == RunStateCompleted
	default:
		return false
	}
}

// EventKind is the kind of event a run emits.
type EventKind string

const (
	// EventKindProgress carries the updated progress percentage.
	EventKindProgress EventKind = "progress"
	// EventKindStatus carries a human readable status line.
	EventKindStatus EventKind = "status"
	// EventKindError carries a per file failure, it's not fatal for the run.
	EventKindError EventKind = "error"
	// EventKindFinished is always the last event of a run and carries its summary.
	EventKindFinished EventKind = "finished"
)

// Event is a notification emitted by a run.
type Event struct {
	Kind    EventKind
	RunID   string
	Path    string
	Percent int
	Message string
	Err     error
	Summary *RunSummary
}

// RunSummary is the result of a run.
type RunSummary struct {
	ID         string
	State      RunState
	Total      int
	Processed  int
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r RunSummary) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Status line messages.
const (
	MsgCancelled = "Operation cancelled."
	MsgNoFiles   = "No files to unblock."
	MsgCompleted = "Completed all files!"
)

// ProcessedMessage returns the status line for a successfully unblocked file.
func ProcessedMessage(path string) string { return "Processed: " + path }

// ErrorMessage returns the status line for a file that could not be unblocked.
func ErrorMessage(path string, err error) string {
	return fmt.Sprintf("Error: %s -> %s", path, err)
}

// Percent returns the rounded (half up) percentage of done over total.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (done*100 + total/2) / total
}
