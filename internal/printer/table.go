package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/unblock/internal/model"
)

// TablePrinter prints unblock information in a human friendly format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintWorkItems prints the expanded files, one per line.
func (t *TablePrinter) PrintWorkItems(items model.WorkItemList) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(t.writer, model.MsgNoFiles)
		return err
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tFILE")
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, item)
	}

	return nil
}

// PrintEvent prints status and error events as log lines, the rest are ignored.
func (t *TablePrinter) PrintEvent(event model.Event) error {
	switch event.Kind {
	case model.EventKindStatus, model.EventKindError:
		_, err := fmt.Fprintln(t.writer, event.Message)
		return err
	default:
		return nil
	}
}

// PrintSummary prints the run result.
func (t *TablePrinter) PrintSummary(s model.RunSummary) error {
	fmt.Fprintf(t.writer, "Run:        %s\n", s.ID)
	fmt.Fprintf(t.writer, "State:      %s\n", s.State)
	fmt.Fprintf(t.writer, "Files:      %d/%d\n", s.Processed, s.Total)
	fmt.Fprintf(t.writer, "Succeeded:  %d\n", s.Succeeded)
	fmt.Fprintf(t.writer, "Failed:     %d\n", s.Failed)
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(t.writer, "Started:    %s\n", FormatTimestamp(s.StartedAt))
	}
	fmt.Fprintf(t.writer, "Duration:   %s\n", FormatDuration(s.Duration()))

	return nil
}

// PrintChecks prints preflight check results of an engine followed by a summary line.
func (t *TablePrinter) PrintChecks(engine string, results []model.CheckResult) error {
	fmt.Fprintf(t.writer, "Checking %s engine...\n", engine)
	for _, r := range results {
		fmt.Fprintf(t.writer, "  %s %-20s %s\n", statusIcon(r.Status), r.ID, r.Message)
	}
	fmt.Fprintln(t.writer)

	_, warnings, errors := model.CountByStatus(results)
	switch {
	case errors == 0 && warnings == 0:
		fmt.Fprintln(t.writer, "All checks passed!")
	case errors > 0 && warnings > 0:
		fmt.Fprintf(t.writer, "%d error(s), %d warning(s)\n", errors, warnings)
	case errors > 0:
		fmt.Fprintf(t.writer, "%d error(s)\n", errors)
	default:
		fmt.Fprintf(t.writer, "%d warning(s)\n", warnings)
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func statusIcon(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "OK"
	case model.CheckStatusWarning:
		return "!!"
	case model.CheckStatusError:
		return "XX"
	default:
		return "??"
	}
}
