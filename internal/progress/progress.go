// Package progress reports the progress of unblock runs on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter reports the progress of a run.
type Reporter interface {
	// Start starts reporting a run that will process total files.
	Start(total int)
	// Update sets the run progress percentage (0-100).
	Update(percent int)
	// Finish stops reporting.
	Finish()
}

// CLIReporter reports progress with a progress bar.
type CLIReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewCLIReporter returns a new progress bar reporter that writes to w.
func NewCLIReporter(w io.Writer) *CLIReporter {
	return &CLIReporter{w: w}
}

// NewReporter returns a progress bar reporter when f is a terminal, otherwise a noop one.
func NewReporter(f *os.File) Reporter {
	if !IsTerminal(f) {
		return NoopReporter
	}
	return NewCLIReporter(f)
}

// IsTerminal returns true if the file is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *CLIReporter) Start(total int) {
	c.bar = progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Unblocking %d file(s)", total)),
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(c.w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (c *CLIReporter) Update(percent int) {
	if c.bar == nil {
		return
	}
	_ = c.bar.Set(min(max(percent, 0), 100))
}

func (c *CLIReporter) Finish() {
	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	c.bar = nil
}

// NoopReporter doesn't report anything.
const NoopReporter = noop(0)

type noop int

func (noop) Start(int)  {}
func (noop) Update(int) {}
func (noop) Finish()    {}
