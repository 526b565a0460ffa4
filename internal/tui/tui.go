// Package tui is the interactive terminal frontend. It lets the user build a
// selection of files and directories and follow a run while it unblocks them.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

const (
	defaultLogLines  = 10
	maxProgressWidth = 80
)

// confirmation is an action waiting for the user to confirm it.
type confirmation int

const (
	confirmNone confirmation = iota
	confirmCancel
	confirmQuit
)

// MsgFinishedOK is the notice shown when a run unblocks all its files.
const MsgFinishedOK = "✔ Finished successfully"

// Run is a started run as seen by the frontend.
type Run interface {
	ID() string
	Events() <-chan model.Event
	State() model.RunState
	Pause()
	Resume()
	Cancel()
}

// Starter starts runs over a selection.
type Starter interface {
	Start(ctx context.Context, paths []string) (Run, error)
}

// ModelConfig is the configuration of the frontend model.
type ModelConfig struct {
	// Starter starts the runs, required.
	Starter Starter
	// Paths is the initial selection.
	Paths []string
	// LogLines is the number of status lines shown.
	LogLines int
	Logger   log.Logger
}

func (c *ModelConfig) defaults() error {
	if c.Starter == nil {
		return fmt.Errorf("starter is required")
	}

	if c.LogLines <= 0 {
		c.LogLines = defaultLogLines
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tui.Model"})

	return nil
}

// Model is the Bubble Tea model of the frontend.
type Model struct {
	ctx     context.Context
	starter Starter
	logger  log.Logger

	selection *model.Selection
	cursor    int

	input     textinput.Model
	inputting bool

	// running is true from the start of a run until its finished event is
	// received, the run state may be terminal before all its events are read.
	run     Run
	running bool
	percent int
	logs    []string
	maxLogs int
	summary *model.RunSummary
	notice  string
	err     error

	confirm confirmation

	progress progress.Model
	help     help.Model
	keys     keyMap
	width    int
}

// NewModel returns a new frontend model. The context is used for the runs.
func NewModel(ctx context.Context, cfg ModelConfig) (*Model, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "paths to add, quote the ones with spaces"
	ti.Prompt = "> "

	pb := progress.New(progress.WithSolidFill(accentColor))
	pb.Width = 50

	return &Model{
		ctx:       ctx,
		starter:   cfg.Starter,
		logger:    cfg.Logger,
		selection: model.NewSelection(cfg.Paths...),
		input:     ti,
		maxLogs:   cfg.LogLines,
		progress:  pb,
		help:      help.New(),
		keys:      defaultKeyMap(),
	}, nil
}

// Selection returns the current selected paths.
func (m *Model) Selection() []string { return m.selection.Paths() }

// Percent returns the progress of the current run.
func (m *Model) Percent() int { return m.percent }

// Logs returns the visible status lines.
func (m *Model) Logs() []string { return m.logs }

// Summary returns the summary of the last finished run, nil if there is none.
func (m *Model) Summary() *model.RunSummary { return m.summary }

// Running returns true while there is a run that has not finished.
func (m *Model) Running() bool { return m.activeRun() }

// Notice returns the notice of the last finished run.
func (m *Model) Notice() string { return m.notice }

// Confirming returns true while an action is waiting for the user confirmation.
func (m *Model) Confirming() bool { return m.confirm != confirmNone }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), maxProgressWidth)
		return m, nil

	case runEventMsg:
		return m.handleRunEvent(msg)

	case runClosedMsg:
		// The events of a run stop without a finished event only when its context ends.
		if m.run != nil && msg.runID == m.run.ID() {
			m.running = false
			m.confirm = confirmNone
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.confirm != confirmNone {
			return m.handleConfirmKey(msg)
		}
		if m.inputting {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Dropping files on the terminal pastes their paths.
	if msg.Paste {
		m.addPaths(string(msg.Runes))
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.activeRun() {
			m.confirm = confirmQuit
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.selection.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		if m.activeRun() {
			return m, nil
		}
		m.inputting = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Remove):
		if m.activeRun() {
			return m, nil
		}
		paths := m.selection.Paths()
		if m.cursor < len(paths) {
			m.selection.Remove(paths[m.cursor])
		}
		if m.cursor >= m.selection.Len() && m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Start):
		return m.startRun()

	case key.Matches(msg, m.keys.Pause):
		if !m.activeRun() {
			return m, nil
		}
		if m.run.State() == model.RunStatePaused {
			m.run.Resume()
			m.logger.Debugf("run resumed")
		} else {
			m.run.Pause()
			m.logger.Debugf("run paused")
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.activeRun() {
			m.confirm = confirmCancel
		}
	}

	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		action := m.confirm
		m.confirm = confirmNone
		if action == confirmQuit {
			return m.quit()
		}
		if m.activeRun() {
			m.run.Cancel()
			m.logger.Debugf("run cancel requested")
		}

	case key.Matches(msg, m.keys.No):
		m.confirm = confirmNone
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.addPaths(m.input.Value())
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.inputting = false
	m.input.Blur()
	m.input.SetValue("")
}

// addPaths adds user input to the selection. Input that is an existing path is
// added as is so paths with spaces don't need quoting.
func (m *Model) addPaths(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}

	paths := []string{s}
	if _, err := os.Stat(s); err != nil {
		paths = ParsePaths(s)
	}

	added := m.selection.Add(paths...)
	m.logger.Debugf("%d paths added to selection", added)
}

func (m *Model) startRun() (tea.Model, tea.Cmd) {
	if m.activeRun() {
		return m, nil
	}

	run, err := m.starter.Start(m.ctx, m.selection.Paths())
	if err != nil {
		m.err = err
		m.logger.Errorf("could not start run: %s", err)
		return m, nil
	}

	m.run = run
	m.running = true
	m.err = nil
	m.percent = 0
	m.logs = nil
	m.summary = nil
	m.notice = ""
	m.logger.Infof("run %s started", run.ID())

	return m, waitForEvent(run)
}

func (m *Model) handleRunEvent(msg runEventMsg) (tea.Model, tea.Cmd) {
	// Events from older runs are ignored.
	if m.run == nil || msg.runID != m.run.ID() {
		return m, nil
	}

	ev := msg.event
	switch ev.Kind {
	case model.EventKindProgress:
		m.percent = ev.Percent
	case model.EventKindStatus, model.EventKindError:
		m.appendLog(ev.Message)
	case model.EventKindFinished:
		m.running = false
		m.confirm = confirmNone
		if ev.Summary != nil {
			s := *ev.Summary
			m.summary = &s
			m.notice = finishNotice(s)
		}
		return m, nil
	}

	return m, waitForEvent(m.run)
}

func (m *Model) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

func (m *Model) activeRun() bool {
	return m.run != nil && m.running
}

// finishNotice returns the notice shown when a run ends, empty when there is nothing to tell.
func finishNotice(s model.RunSummary) string {
	switch {
	case s.State != model.RunStateCompleted || s.Total == 0:
		return ""
	case s.Failed > 0:
		return fmt.Sprintf("Finished, %d of %d files could not be unblocked", s.Failed, s.Total)
	default:
		return MsgFinishedOK
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.activeRun() {
		m.run.Cancel()
	}
	return m, tea.Quit
}
