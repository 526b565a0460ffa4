package lib

import (
	"errors"
	"time"

	"github.com/slok/unblock/internal/model"
)

// EngineType identifies the unblock engine implementation.
type EngineType string

const (
	// EngineCommand runs an external command per file.
	EngineCommand EngineType = "command"

	// EngineNative removes the download marks in-process.
	EngineNative EngineType = "native"

	// EngineFake doesn't modify any file.
	// Use this for unit testing and dry runs.
	EngineFake EngineType = "fake"
)

// RunState represents the lifecycle state of a run.
//
// The lifecycle is:
//
//	pending -> running <-> paused -> completed
//
// A pending, running or paused run can be cancelled.
type RunState string

const (
	// RunStatePending indicates the run has not started yet.
	RunStatePending RunState = "pending"
	// RunStateRunning indicates the run is processing files.
	RunStateRunning RunState = "running"
	// RunStatePaused indicates the run is waiting to be resumed.
	RunStatePaused RunState = "paused"
	// RunStateCancelled indicates the run stopped before processing all the files.
	RunStateCancelled RunState = "cancelled"
	// RunStateCompleted indicates the run processed all the files.
	RunStateCompleted RunState = "completed"
)

// EventKind is the kind of a run event.
type EventKind string

const (
	// EventKindProgress carries the updated progress percentage.
	EventKindProgress EventKind = "progress"
	// EventKindStatus carries a human readable status line.
	EventKindStatus EventKind = "status"
	// EventKindError carries a file that could not be unblocked.
	EventKindError EventKind = "error"
	// EventKindFinished is the last event of a run and carries its summary.
	EventKindFinished EventKind = "finished"
)

// Event is a notification emitted by a run.
type Event struct {
	// Kind is the event kind.
	Kind EventKind
	// RunID is the ID of the run that emitted the event.
	RunID string
	// Path is the file the event refers to, if any.
	Path string
	// Percent is the run progress (0-100), set on progress events.
	Percent int
	// Message is a human readable line (e.g. "Processed: /tmp/a.zip").
	Message string
	// Err is the file error on error events.
	Err error
	// Summary is set on the finished event.
	Summary *RunSummary
}

// RunSummary is the result of a run.
type RunSummary struct {
	// ID is the unique identifier (ULID) of the run.
	ID string
	// State is the run state.
	State RunState
	// Total is the number of files found in the selection.
	Total int
	// Processed is the number of files processed, failed ones included.
	Processed int
	// Succeeded is the number of files unblocked.
	Succeeded int
	// Failed is the number of files that could not be unblocked.
	Failed int
	// StartedAt is when the run started.
	StartedAt time.Time
	// FinishedAt is when the run finished, zero while it's running.
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r RunSummary) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// --- Doctor types ---

// CheckStatus represents the status of a preflight check.
type CheckStatus string

const (
	// CheckStatusOK indicates the check passed.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning indicates the check passed with a warning.
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError indicates the check failed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	// ID is a unique identifier for the check (e.g. "command_available").
	ID string
	// Message is a human-readable description of the result.
	Message string
	// Status is the check status.
	Status CheckStatus
}

// --- Errors ---

var (
	// ErrNotValid is returned on invalid configuration or operations.
	ErrNotValid = errors.New("not valid")
	// ErrNoFiles is returned when a selection doesn't have files to unblock.
	ErrNoFiles = errors.New("no files")
	// ErrNotSupported is returned when the engine is not supported on the platform.
	ErrNotSupported = errors.New("not supported")
)

// --- Internal conversion helpers ---

func fromInternalSummary(s model.RunSummary) RunSummary {
	return RunSummary{
		ID:         s.ID,
		State:      RunState(s.State),
		Total:      s.Total,
		Processed:  s.Processed,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
}

func fromInternalEvent(ev model.Event) Event {
	out := Event{
		Kind:    EventKind(ev.Kind),
		RunID:   ev.RunID,
		Path:    ev.Path,
		Percent: ev.Percent,
		Message: ev.Message,
		Err:     mapError(ev.Err),
	}
	if ev.Summary != nil {
		s := fromInternalSummary(*ev.Summary)
		out.Summary = &s
	}

	return out
}

func fromInternalCheckResults(results []model.CheckResult) []CheckResult {
	out := make([]CheckResult, len(results))
	for i, r := range results {
		out[i] = CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		}
	}
	return out
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, model.ErrNoFiles):
		return joinErrors(err, ErrNoFiles)
	case errors.Is(err, model.ErrNotSupported):
		return joinErrors(err, ErrNotSupported)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
