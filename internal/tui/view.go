package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/printer"
)

const accentColor = "#0078d7"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color(accentColor)).Padding(0, 1)
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor)).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	summaryStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	noticeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	confirmStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	logPanelStyle = lipgloss.NewStyle().MarginTop(1).PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("238"))

	stateStyles = map[model.RunState]lipgloss.Style{
		model.RunStateRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.RunStatePaused:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.RunStateCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.RunStateCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("unblock"))
	if badge := m.stateBadge(); badge != "" {
		b.WriteString(" " + badge)
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Selection (%d)", m.selection.Len())))
	b.WriteString("\n")
	paths := m.selection.Paths()
	if len(paths) == 0 {
		b.WriteString(mutedStyle.Render("  Drop files or folders here, or press a to add paths."))
		b.WriteString("\n")
	}
	for i, p := range paths {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + p))
		} else {
			b.WriteString("  " + p)
		}
		b.WriteString("\n")
	}

	if m.inputting {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.run != nil {
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(float64(m.percent) / 100))
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		lines := make([]string, 0, len(m.logs))
		for _, l := range m.logs {
			if strings.HasPrefix(l, "Error:") {
				l = errorStyle.Render(l)
			}
			lines = append(lines, l)
		}
		b.WriteString(logPanelStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if m.summary != nil {
		b.WriteString(summaryStyle.Render(summaryLine(*m.summary)))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	if prompt := m.confirmPrompt(); prompt != "" {
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render(prompt))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirm != confirmNone:
		b.WriteString(m.help.View(confirmKeyMap{m.keys}))
	case m.inputting:
		b.WriteString(m.help.View(inputKeyMap{m.keys}))
	default:
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *Model) confirmPrompt() string {
	switch m.confirm {
	case confirmCancel:
		return "Are you sure you want to cancel? (y/n)"
	case confirmQuit:
		return "A run is in progress, cancel it and quit? (y/n)"
	default:
		return ""
	}
}

func (m *Model) stateBadge() string {
	if m.run == nil {
		return ""
	}

	state := m.run.State()
	if m.summary != nil {
		state = m.summary.State
	}

	style, ok := stateStyles[state]
	if !ok {
		style = mutedStyle
	}

	return style.Render("● " + string(state))
}

func summaryLine(s model.RunSummary) string {
	line := fmt.Sprintf("%s: %d/%d files, %d failed (%s)", s.State, s.Processed, s.Total, s.Failed, printer.FormatDuration(s.Duration()))
	if s.Total == 0 {
		line = fmt.Sprintf("%s: %s", s.State, model.MsgNoFiles)
	}
	return line
}
