package tui_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/unblock/internal/app/unblock"
	"github.com/slok/unblock/internal/model"
	"github.com/slok/unblock/internal/tui"
	"github.com/slok/unblock/internal/unblocker/fake"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func paste(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

// update sends a message and runs the returned commands until there is nothing
// left to do, like the Bubble Tea runtime would.
func update(t *testing.T, m *tui.Model, msg tea.Msg) {
	t.Helper()

	for msg != nil {
		_, cmd := m.Update(msg)
		if cmd == nil {
			return
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()
		select {
		case msg = <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("command timed out")
		}

		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
	}
}

func newTestFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return dir
}

func newServiceStarter(t *testing.T, failPatterns ...string) tui.Starter {
	t.Helper()

	u, err := fake.NewUnblocker(fake.UnblockerConfig{FailPatterns: failPatterns})
	require.NoError(t, err)
	svc, err := unblock.NewService(unblock.ServiceConfig{Unblocker: u})
	require.NoError(t, err)

	return tui.NewServiceStarter(svc)
}

func TestNewModel(t *testing.T) {
	_, err := tui.NewModel(context.Background(), tui.ModelConfig{})
	assert.Error(t, err)

	m, err := tui.NewModel(context.Background(), tui.ModelConfig{
		Starter: newServiceStarter(t),
		Paths:   []string{"/d/a", "/d/b", "/d/a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/a", "/d/b"}, m.Selection())
	assert.False(t, m.Running())
}

func TestModelSelectionEditing(t *testing.T) {
	tests := map[string]struct {
		initial []string
		msgs    []tea.Msg
		expSel  []string
	}{
		"Adding paths with the input should add them to the selection": {
			msgs: []tea.Msg{
				keyRunes("a"),
				paste(`"/d/my dir" /d/b.txt`),
				tea.KeyMsg{Type: tea.KeyEnter},
			},
			expSel: []string{"/d/my dir", "/d/b.txt"},
		},

		"Cancelling the input should not add anything": {
			msgs: []tea.Msg{
				keyRunes("a"),
				paste("/d/a.txt"),
				tea.KeyMsg{Type: tea.KeyEsc},
			},
			expSel: []string{},
		},

		"Dropping paths should add them to the selection": {
			initial: []string{"/d/a.txt"},
			msgs:    []tea.Msg{paste("'/d/b.txt'\n/d/a.txt")},
			expSel:  []string{"/d/a.txt", "/d/b.txt"},
		},

		"Removing should remove the path under the cursor": {
			initial: []string{"/d/a", "/d/b", "/d/c"},
			msgs:    []tea.Msg{keyRunes("j"), keyRunes("d")},
			expSel:  []string{"/d/a", "/d/c"},
		},

		"Removing with the cursor at the end should keep the cursor on the list": {
			initial: []string{"/d/a", "/d/b"},
			msgs:    []tea.Msg{keyRunes("j"), keyRunes("j"), keyRunes("x"), keyRunes("x")},
			expSel:  []string{},
		},

		"Moving up should stop on the first path": {
			initial: []string{"/d/a", "/d/b"},
			msgs:    []tea.Msg{keyRunes("k"), tea.KeyMsg{Type: tea.KeyUp}, keyRunes("d")},
			expSel:  []string{"/d/b"},
		},

		"Removing on an empty selection should do nothing": {
			msgs:   []tea.Msg{keyRunes("d")},
			expSel: []string{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := tui.NewModel(context.Background(), tui.ModelConfig{
				Starter: newServiceStarter(t),
				Paths:   test.initial,
			})
			require.NoError(t, err)

			for _, msg := range test.msgs {
				_, _ = m.Update(msg)
			}

			assert.Equal(t, test.expSel, m.Selection())
		})
	}
}

func TestModelRun(t *testing.T) {
	dir := newTestFiles(t, "a.txt", "dirX/b.txt", "dirX/bad.txt")

	m, err := tui.NewModel(context.Background(), tui.ModelConfig{
		Starter: newServiceStarter(t, "bad*"),
		Paths:   []string{dir},
	})
	require.NoError(t, err)

	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.Summary())
	assert.False(t, m.Running())
	assert.Equal(t, 100, m.Percent())
	assert.Equal(t, model.RunStateCompleted, m.Summary().State)
	assert.Equal(t, 3, m.Summary().Processed)
	assert.Equal(t, 1, m.Summary().Failed)

	logs := m.Logs()
	require.Len(t, logs, 4)
	assert.Equal(t, model.ProcessedMessage(filepath.Join(dir, "a.txt")), logs[0])
	assert.Contains(t, logs[2], "Error: "+filepath.Join(dir, "dirX", "bad.txt"))
	assert.Equal(t, model.MsgCompleted, logs[3])

	view := m.View()
	assert.Contains(t, view, "completed: 3/3 files, 1 failed")
	assert.Contains(t, view, "100%")
}

func TestModelRunLogTail(t *testing.T) {
	dir := newTestFiles(t, "1", "2", "3", "4", "5")

	m, err := tui.NewModel(context.Background(), tui.ModelConfig{
		Starter:  newServiceStarter(t),
		Paths:    []string{dir},
		LogLines: 2,
	})
	require.NoError(t, err)

	update(t, m, keyRunes("s"))

	assert.Equal(t, []string{model.ProcessedMessage(filepath.Join(dir, "5")), model.MsgCompleted}, m.Logs())
}

func TestModelRunNoFiles(t *testing.T) {
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: newServiceStarter(t)})
	require.NoError(t, err)

	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.Summary())
	assert.Equal(t, []string{model.MsgNoFiles}, m.Logs())
	assert.Contains(t, m.View(), "completed: "+model.MsgNoFiles)
}

type errStarter struct{}

func (errStarter) Start(context.Context, []string) (tui.Run, error) {
	return nil, errors.New("something")
}

func TestModelRunStartError(t *testing.T) {
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: errStarter{}})
	require.NoError(t, err)

	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.Running())
	assert.Contains(t, m.View(), "Error: something")
}

// controlledRun is a run controlled by the test.
type controlledRun struct {
	id        string
	mu        sync.Mutex
	state     model.RunState
	cancelled bool
	events    chan model.Event
}

func newControlledRun(id string) *controlledRun {
	return &controlledRun{id: id, state: model.RunStateRunning, events: make(chan model.Event, 10)}
}

func (r *controlledRun) ID() string                 { return r.id }
func (r *controlledRun) Events() <-chan model.Event { return r.events }

func (r *controlledRun) setState(state model.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

func (r *controlledRun) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *controlledRun) State() model.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *controlledRun) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = model.RunStatePaused
}

func (r *controlledRun) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = model.RunStateRunning
}

func (r *controlledRun) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
}

// controlledStarter returns its runs in order, the last one is reused.
type controlledStarter struct {
	runs  []*controlledRun
	calls int
}

func (s *controlledStarter) Start(context.Context, []string) (tui.Run, error) {
	run := s.runs[min(s.calls, len(s.runs)-1)]
	s.calls++
	return run, nil
}

func TestModelRunControls(t *testing.T) {
	run := newControlledRun("run-1")
	starter := &controlledStarter{runs: []*controlledRun{run}}
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: starter, Paths: []string{"/d"}})
	require.NoError(t, err)

	// Start without consuming events.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Running())
	assert.Contains(t, m.View(), "running")

	// Starting again while running is ignored.
	_, _ = m.Update(keyRunes("s"))
	assert.Equal(t, 1, starter.calls)

	// Selection can't be changed while running.
	_, _ = m.Update(keyRunes("d"))
	assert.Equal(t, []string{"/d"}, m.Selection())

	_, _ = m.Update(keyRunes("p"))
	assert.Equal(t, model.RunStatePaused, run.State())
	assert.Contains(t, m.View(), "paused")

	_, _ = m.Update(keyRunes("p"))
	assert.Equal(t, model.RunStateRunning, run.State())

	// Cancelling needs a confirmation.
	_, _ = m.Update(keyRunes("c"))
	assert.True(t, m.Confirming())
	assert.False(t, run.isCancelled())
	_, _ = m.Update(keyRunes("y"))
	assert.False(t, m.Confirming())
	assert.True(t, run.isCancelled())

	// Progress events update the bar.
	run.events <- model.Event{Kind: model.EventKindProgress, RunID: run.ID(), Percent: 42}
	msg := cmd()
	_, cmd = m.Update(msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, 42, m.Percent())
}

func TestModelQuitCancelsActiveRun(t *testing.T) {
	run := newControlledRun("run-1")
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: &controlledStarter{runs: []*controlledRun{run}}})
	require.NoError(t, err)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, run.cancelled)
}

func TestModelConfirmations(t *testing.T) {
	tests := map[string]struct {
		keys         []tea.KeyMsg
		expCancelled bool
		expQuit      bool
		expPrompt    string
	}{
		"Cancel should ask for confirmation.": {
			keys:      []tea.KeyMsg{keyRunes("c")},
			expPrompt: "Are you sure you want to cancel? (y/n)",
		},

		"Cancel confirmed should cancel the run.": {
			keys:         []tea.KeyMsg{keyRunes("c"), keyRunes("y")},
			expCancelled: true,
		},

		"Cancel denied should keep the run going.": {
			keys: []tea.KeyMsg{keyRunes("c"), keyRunes("n")},
		},

		"Cancel dismissed with escape should keep the run going.": {
			keys: []tea.KeyMsg{keyRunes("c"), {Type: tea.KeyEsc}},
		},

		"Other keys while confirming should be ignored.": {
			keys:      []tea.KeyMsg{keyRunes("c"), keyRunes("p"), keyRunes("s")},
			expPrompt: "Are you sure you want to cancel? (y/n)",
		},

		"Quit with an active run should ask for confirmation.": {
			keys:      []tea.KeyMsg{keyRunes("q")},
			expPrompt: "A run is in progress, cancel it and quit? (y/n)",
		},

		"Quit confirmed should cancel the run and quit.": {
			keys:         []tea.KeyMsg{keyRunes("q"), keyRunes("y")},
			expCancelled: true,
			expQuit:      true,
		},

		"Quit denied should keep the run going.": {
			keys: []tea.KeyMsg{keyRunes("q"), keyRunes("n")},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			run := newControlledRun("run-1")
			m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: &controlledStarter{runs: []*controlledRun{run}}})
			require.NoError(t, err)
			_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

			var cmd tea.Cmd
			for _, k := range test.keys {
				_, cmd = m.Update(k)
			}

			assert.Equal(t, test.expCancelled, run.isCancelled())
			assert.Equal(t, model.RunStateRunning, run.State())
			if test.expQuit {
				require.NotNil(t, cmd)
				assert.Equal(t, tea.Quit(), cmd())
			} else if cmd != nil {
				_, isQuit := cmd().(tea.QuitMsg)
				assert.False(t, isQuit)
			}

			assert.Equal(t, test.expPrompt != "", m.Confirming())
			if test.expPrompt != "" {
				assert.Contains(t, m.View(), test.expPrompt)
			}
		})
	}
}

func TestModelQuitWithoutRunDoesNotConfirm(t *testing.T) {
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: newServiceStarter(t)})
	require.NoError(t, err)

	_, cmd := m.Update(keyRunes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.Confirming())
}

func TestModelRunFinishedWhileConfirming(t *testing.T) {
	run := newControlledRun("run-1")
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: &controlledStarter{runs: []*controlledRun{run}}})
	require.NoError(t, err)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, _ = m.Update(keyRunes("c"))
	require.True(t, m.Confirming())

	run.setState(model.RunStateCompleted)
	run.events <- model.Event{Kind: model.EventKindFinished, RunID: run.ID(), Summary: &model.RunSummary{State: model.RunStateCompleted, Total: 1, Processed: 1, Succeeded: 1}}
	_, _ = m.Update(cmd())

	// Nothing is left to cancel.
	assert.False(t, m.Confirming())
	_, _ = m.Update(keyRunes("y"))
	assert.False(t, run.isCancelled())
}

func TestModelFinishNotice(t *testing.T) {
	tests := map[string]struct {
		failPatterns []string
		files        []string
		expNotice    string
	}{
		"A run without failures should notify it finished successfully.": {
			files:     []string{"a.txt", "b.txt"},
			expNotice: tui.MsgFinishedOK,
		},

		"A run with failures should notify the failed files.": {
			failPatterns: []string{"bad*"},
			files:        []string{"a.txt", "bad.txt"},
			expNotice:    "Finished, 1 of 2 files could not be unblocked",
		},

		"A run without files should not notify.": {},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			paths := []string{}
			if len(test.files) > 0 {
				paths = append(paths, newTestFiles(t, test.files...))
			}

			m, err := tui.NewModel(context.Background(), tui.ModelConfig{
				Starter: newServiceStarter(t, test.failPatterns...),
				Paths:   paths,
			})
			require.NoError(t, err)

			update(t, m, keyRunes("s"))

			require.NotNil(t, m.Summary())
			assert.Equal(t, test.expNotice, m.Notice())
			if test.expNotice != "" {
				assert.Contains(t, m.View(), test.expNotice)
			}
		})
	}
}

func TestModelRunActiveUntilFinishedEvent(t *testing.T) {
	first := newControlledRun("run-1")
	second := newControlledRun("run-2")
	starter := &controlledStarter{runs: []*controlledRun{first, second}}
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: starter, Paths: []string{"/d"}})
	require.NoError(t, err)

	_, cmd := m.Update(keyRunes("s"))
	require.NotNil(t, cmd)

	// The run ended but its last events are still queued.
	first.setState(model.RunStateCompleted)
	first.events <- model.Event{Kind: model.EventKindStatus, RunID: first.ID(), Message: model.MsgCompleted}
	first.events <- model.Event{Kind: model.EventKindFinished, RunID: first.ID(), Summary: &model.RunSummary{ID: first.ID(), State: model.RunStateCompleted, Total: 1, Processed: 1, Succeeded: 1}}

	// Starting now would abandon the queued events of the first run.
	_, _ = m.Update(keyRunes("s"))
	assert.Equal(t, 1, starter.calls)
	assert.True(t, m.Running())

	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, []string{model.MsgCompleted}, m.Logs())
	_, cmd = m.Update(cmd())
	assert.Nil(t, cmd)
	require.NotNil(t, m.Summary())
	assert.Equal(t, first.ID(), m.Summary().ID)
	assert.False(t, m.Running())

	// Once the first run is fully read a new one can start.
	_, cmd = m.Update(keyRunes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, 2, starter.calls)
	assert.True(t, m.Running())
	assert.Nil(t, m.Summary())
}

func TestModelRunClosedWithoutFinishedEvent(t *testing.T) {
	run := newControlledRun("run-1")
	m, err := tui.NewModel(context.Background(), tui.ModelConfig{Starter: &controlledStarter{runs: []*controlledRun{run}}})
	require.NoError(t, err)

	_, cmd := m.Update(keyRunes("s"))
	require.True(t, m.Running())

	close(run.events)
	_, _ = m.Update(cmd())

	assert.False(t, m.Running())
}
