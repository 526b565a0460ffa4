package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/unblock/internal/model"
)

// JSONPrinter prints unblock information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type workItemsOutput struct {
	Files []string `json:"files"`
	Total int      `json:"total"`
}

// eventOutput is a single event, events are printed one per line so they can be streamed.
type eventOutput struct {
	Kind    string         `json:"kind"`
	RunID   string         `json:"run_id"`
	Path    string         `json:"path,omitempty"`
	Percent int            `json:"percent"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Summary *summaryOutput `json:"summary,omitempty"`
}

type summaryOutput struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	DurationMS int64      `json:"duration_ms"`
}

type checkOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type checksOutput struct {
	Engine string        `json:"engine"`
	Checks []checkOutput `json:"checks"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintWorkItems prints the expanded files.
func (j *JSONPrinter) PrintWorkItems(items model.WorkItemList) error {
	files := make([]string, 0, len(items))
	files = append(files, items...)
	return j.encode(workItemsOutput{Files: files, Total: len(files)}, true)
}

// PrintEvent prints an event as a single JSON line.
func (j *JSONPrinter) PrintEvent(event model.Event) error {
	out := eventOutput{
		Kind:    string(event.Kind),
		RunID:   event.RunID,
		Path:    event.Path,
		Percent: event.Percent,
		Message: event.Message,
	}
	if event.Err != nil {
		out.Error = event.Err.Error()
	}
	if event.Summary != nil {
		s := newSummaryOutput(*event.Summary)
		out.Summary = &s
	}

	return j.encode(out, false)
}

// PrintSummary prints the run result.
func (j *JSONPrinter) PrintSummary(s model.RunSummary) error {
	return j.encode(newSummaryOutput(s), true)
}

// PrintChecks prints preflight check results of an engine.
func (j *JSONPrinter) PrintChecks(engine string, results []model.CheckResult) error {
	out := checksOutput{Engine: engine, Checks: make([]checkOutput, 0, len(results))}
	for _, r := range results {
		out.Checks = append(out.Checks, checkOutput{ID: r.ID, Status: string(r.Status), Message: r.Message})
	}
	return j.encode(out, true)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg}, true)
}

func (j *JSONPrinter) encode(v any, indent bool) error {
	enc := json.NewEncoder(j.writer)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newSummaryOutput(s model.RunSummary) summaryOutput {
	out := summaryOutput{
		ID:         s.ID,
		State:      string(s.State),
		Total:      s.Total,
		Processed:  s.Processed,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		DurationMS: s.Duration().Milliseconds(),
	}
	if !s.StartedAt.IsZero() {
		t := s.StartedAt.UTC()
		out.StartedAt = &t
	}
	if !s.FinishedAt.IsZero() {
		t := s.FinishedAt.UTC()
		out.FinishedAt = &t
	}
	return out
}
