package tui

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Clock delivers the engine's periodic callback through the Bubble Tea
// event loop, so the callback runs on the same goroutine as key handling.
//
// Every Arm or Disarm bumps a generation counter. Tick messages from an
// older generation are dropped, which keeps a single tick chain alive.
type Clock struct {
	gen      int
	interval time.Duration
	fn       func()
	pending  bool
}

type clockTickMsg struct {
	gen int
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Arm(interval time.Duration, fn func()) {
	c.gen++
	c.interval = interval
	c.fn = fn
	c.pending = true
}

func (c *Clock) Disarm() {
	c.gen++
	c.fn = nil
	c.pending = false
}

func (c *Clock) armed() bool {
	return c.fn != nil
}

// cmd starts the tick chain after a fresh Arm. It returns nil otherwise.
func (c *Clock) cmd() tea.Cmd {
	if !c.pending || c.fn == nil {
		return nil
	}
	c.pending = false
	return c.tick(c.gen)
}

// fire runs the callback for a tick of the current generation and
// schedules the next one.
func (c *Clock) fire(gen int) tea.Cmd {
	if gen != c.gen || c.fn == nil {
		return nil
	}
	c.fn()
	if gen != c.gen || c.fn == nil {
		return nil
	}
	return c.tick(gen)
}

func (c *Clock) tick(gen int) tea.Cmd {
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return clockTickMsg{gen: gen}
	})
}

// Bell rings the terminal bell on work-phase completion.
type Bell struct {
	w io.Writer
}

// NewBell writes to w, or to stderr when w is nil.
func NewBell(w io.Writer) *Bell {
	if w == nil {
		w = os.Stderr
	}
	return &Bell{w: w}
}

func (b *Bell) Notify() error {
	_, err := io.WriteString(b.w, "\a")
	return err
}
