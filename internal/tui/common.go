package tui

import (
	"fmt"

	"github.com/sadopc/tomodo/internal/pomodoro"
)

// viewState represents the currently active view.
type viewState int

const (
	viewFocus viewState = iota
	viewTasks
	viewReports
	viewSettings
)

var viewNames = []string{"Focus", "Tasks", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type configSavedMsg struct{}

// --- Helpers ---

func completionText(c pomodoro.Completion) string {
	if c.Ended == pomodoro.PhaseBreak {
		return "Break over. Back to work!"
	}
	text := fmt.Sprintf("Pomodoro done! %d today", c.Stat.CompletedPomodoros)
	if c.Task != nil {
		text += fmt.Sprintf(" · %s %d/%d", truncate(c.Task.Text, 24), c.Task.CompletedPomodoros, c.Task.EstimatedPomodoros)
		if c.Task.Completed {
			text += " ✓"
		}
	}
	return text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func tomatoes(done, estimate int) string {
	return fmt.Sprintf("%d/%d", done, estimate)
}
