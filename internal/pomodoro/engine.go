// Package pomodoro implements the work/break timer and the task and daily
// statistics state it updates.
//
// All methods are meant to be called from a single goroutine: the clock
// callback and user intents run one at a time, each to completion.
package pomodoro

import (
	"time"

	"github.com/sadopc/tomodo/internal/logging"
)

// Clock invokes fn once per interval while armed.
type Clock interface {
	Arm(interval time.Duration, fn func())
	Disarm()
}

// Notifier plays the work-phase completion cue.
type Notifier interface {
	Notify() error
}

// Config holds the timer settings.
type Config struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	// RequireTask refuses to start the countdown without a selected task.
	RequireTask bool
	StartMuted  bool
}

// DefaultConfig returns 25/5 minute phases with the task guard enabled.
func DefaultConfig() Config {
	return Config{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		RequireTask:   true,
	}
}

// TickInterval is the period the engine arms its clock with.
const TickInterval = time.Second

// Engine owns the timer state and applies phase completions to the task
// registry and the statistics ledger.
type Engine struct {
	cfg      Config
	tasks    *Registry
	stats    *Ledger
	clock    Clock
	notifier Notifier
	now      func() time.Time

	phase     Phase
	status    Status
	remaining int // seconds
	muted     bool
	selected  string

	last   *Completion
	closed bool
}

// NewEngine returns an idle engine at the start of a work phase.
func NewEngine(cfg Config, tasks *Registry, stats *Ledger, clock Clock, notifier Notifier) *Engine {
	if tasks == nil {
		tasks = NewRegistry(nil)
	}
	if stats == nil {
		stats = NewLedger(nil)
	}
	if clock == nil {
		clock = nopClock{}
	}
	e := &Engine{
		cfg:      normalize(cfg),
		tasks:    tasks,
		stats:    stats,
		clock:    clock,
		notifier: notifier,
		now:      time.Now,
		phase:    PhaseWork,
		status:   StatusIdle,
		muted:    cfg.StartMuted,
	}
	e.remaining = e.phaseSeconds(PhaseWork)
	return e
}

func normalize(cfg Config) Config {
	if cfg.WorkDuration < time.Second {
		cfg.WorkDuration = 25 * time.Minute
	}
	if cfg.BreakDuration < time.Second {
		cfg.BreakDuration = 5 * time.Minute
	}
	return cfg
}

// Toggle pauses a running countdown or starts/resumes a stopped one.
// With RequireTask set, starting needs a selected task.
func (e *Engine) Toggle() {
	if e.closed {
		return
	}
	if e.status == StatusRunning {
		e.pause()
		return
	}
	if e.cfg.RequireTask {
		if _, ok := e.SelectedTask(); !ok {
			return
		}
	}
	e.status = StatusRunning
	e.clock.Arm(TickInterval, e.Tick)
}

// Reset returns to an idle work phase without crediting any progress.
func (e *Engine) Reset() {
	if e.closed {
		return
	}
	e.clock.Disarm()
	e.status = StatusIdle
	e.phase = PhaseWork
	e.remaining = e.phaseSeconds(PhaseWork)
}

// ToggleMute flips whether completions play the notification.
func (e *Engine) ToggleMute() {
	e.muted = !e.muted
}

// Tick advances the countdown by one second. It does nothing unless running.
func (e *Engine) Tick() {
	if e.closed || e.status != StatusRunning {
		return
	}
	if e.remaining <= 1 {
		e.completePhase()
		e.remaining = e.phaseSeconds(e.phase)
		return
	}
	e.remaining--
}

// completePhase switches phase and, when a work phase ended, records the
// pomodoro against today's statistics and the selected task.
func (e *Engine) completePhase() {
	ended := e.phase
	if ended == PhaseWork {
		e.phase = PhaseBreak
	} else {
		e.phase = PhaseWork
	}

	c := Completion{Ended: ended, Started: e.phase}
	if ended == PhaseWork {
		e.notify()

		c.Date = DateKey(e.now())
		c.Stat = e.stats.RecordCompletion(c.Date, e.focusMinutes())

		if t, ok := e.SelectedTask(); ok {
			if credited, ok := e.tasks.creditPomodoro(t.ID); ok {
				c.Task = &credited
			}
		}
	}
	e.last = &c
	logging.Debugf("phase %s complete, next %s", ended, e.phase)
}

func (e *Engine) notify() {
	if e.muted || e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(); err != nil {
		logging.Debugf("notify: %v", err)
	}
}

func (e *Engine) pause() {
	e.clock.Disarm()
	e.status = StatusPaused
}

// Select points the timer at task id. Unknown ids are ignored.
func (e *Engine) Select(id string) bool {
	if _, ok := e.tasks.Get(id); !ok {
		return false
	}
	e.selected = id
	return true
}

// Deselect clears the selected task.
func (e *Engine) Deselect() {
	e.selected = ""
}

// DeleteTask removes a task. Deleting the selected task clears the
// selection and pauses a running countdown.
func (e *Engine) DeleteTask(id string) bool {
	if !e.tasks.Delete(id) {
		return false
	}
	if id == e.selected {
		e.selected = ""
		if e.status == StatusRunning {
			e.pause()
		}
	}
	return true
}

// SelectedTask resolves the selection, clearing it if the task is gone.
func (e *Engine) SelectedTask() (Task, bool) {
	if e.selected == "" {
		return Task{}, false
	}
	t, ok := e.tasks.Get(e.selected)
	if !ok {
		e.selected = ""
		return Task{}, false
	}
	return t, true
}

// SelectedID returns the id of the selected task, or "".
func (e *Engine) SelectedID() string {
	t, ok := e.SelectedTask()
	if !ok {
		return ""
	}
	return t.ID
}

// SetConfig applies new settings. An idle timer picks up the new work
// duration immediately; otherwise it applies from the next phase.
func (e *Engine) SetConfig(cfg Config) {
	muted := e.muted
	e.cfg = normalize(cfg)
	e.muted = muted
	if e.status == StatusIdle && e.phase == PhaseWork {
		e.remaining = e.phaseSeconds(PhaseWork)
	}
}

// Close disarms the clock for good. Later ticks and toggles are ignored.
func (e *Engine) Close() {
	e.clock.Disarm()
	e.closed = true
	if e.status == StatusRunning {
		e.status = StatusPaused
	}
}

// TakeCompletion returns the most recent phase completion once.
func (e *Engine) TakeCompletion() (Completion, bool) {
	if e.last == nil {
		return Completion{}, false
	}
	c := *e.last
	e.last = nil
	return c, true
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Status() Status { return e.status }
func (e *Engine) Running() bool { return e.status == StatusRunning }
func (e *Engine) Muted() bool { return e.muted }
func (e *Engine) Remaining() int { return e.remaining }
func (e *Engine) Tasks() *Registry { return e.tasks }
func (e *Engine) Stats() *Ledger { return e.stats }
func (e *Engine) Display() string { return FormatClock(e.remaining) }
func (e *Engine) PhaseDuration() int { return e.phaseSeconds(e.phase) }

// Progress is the elapsed fraction of the current phase.
func (e *Engine) Progress() float64 {
	return Progress(e.remaining, e.PhaseDuration())
}

// Today returns today's statistics entry.
func (e *Engine) Today() DailyStat {
	return e.stats.Get(DateKey(e.now()))
}

func (e *Engine) phaseSeconds(p Phase) int {
	d := e.cfg.WorkDuration
	if p == PhaseBreak {
		d = e.cfg.BreakDuration
	}
	return int(d / time.Second)
}

func (e *Engine) focusMinutes() int {
	return int(e.cfg.WorkDuration / time.Minute)
}

type nopClock struct{}

func (nopClock) Arm(time.Duration, func()) {}
func (nopClock) Disarm()                   {}
