package printer

import "github.com/slok/unblock/internal/model"

// Printer knows how to print unblock information in different formats.
type Printer interface {
	PrintWorkItems(items model.WorkItemList) error
	PrintEvent(event model.Event) error
	PrintSummary(summary model.RunSummary) error
	PrintChecks(engine string, results []model.CheckResult) error
	PrintMessage(msg string) error
}
