package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/unblock/internal/model"
)

type runEventMsg struct {
	runID string
	event model.Event
}

type runClosedMsg struct {
	runID string
}

// waitForEvent waits for the next run event.
func waitForEvent(run Run) tea.Cmd {
	id := run.ID()
	events := run.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return runClosedMsg{runID: id}
		}
		return runEventMsg{runID: id, event: ev}
	}
}
