package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

type focusModel struct {
	engine *pomodoro.Engine
	width  int
	height int

	bar progress.Model
}

func newFocusModel(e *pomodoro.Engine) focusModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return focusModel{
		engine: e,
		bar:    bar,
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
	f.bar.Width = max(10, min(60, w-16))
}

func (f focusModel) view() string {
	if f.width < 20 {
		return "Terminal too small"
	}

	contentWidth := f.width - 4

	timerPanel := f.renderTimerPanel(contentWidth)
	taskPanel := f.renderTaskPanel(contentWidth)
	todayPanel := f.renderTodayPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, taskPanel, todayPanel)
}

func (f focusModel) renderTimerPanel(w int) string {
	e := f.engine
	isBreak := e.Phase() == pomodoro.PhaseBreak

	var phaseLabel string
	if isBreak {
		phaseLabel = breakStyle.Render("BREAK")
	} else {
		phaseLabel = workStyle.Render("FOCUS")
	}

	var timeDisplay, indicator string
	switch e.Status() {
	case pomodoro.StatusRunning:
		timeDisplay = phaseStyle(isBreak).Width(w - 6).Align(lipgloss.Center).Render(e.Display())
		indicator = successStyle.Render("●  RUNNING")
	case pomodoro.StatusPaused:
		timeDisplay = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(e.Display())
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(e.Display())
		indicator = mutedStyle.Render("■  READY")
	}

	sound := mutedStyle.Render("♪ sound on")
	if e.Muted() {
		sound = mutedStyle.Render("♪ muted")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		phaseLabel,
		"",
		timeDisplay,
		indicator,
		"",
		f.bar.ViewAs(e.Progress()),
		"",
		sound,
	)

	if e.Running() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (f focusModel) renderTaskPanel(w int) string {
	title := titleStyle.Render("Working on")

	task, ok := f.engine.SelectedTask()
	if !ok {
		hint := "No task selected. Press 2 and enter to pick one."
		if !f.engine.Config().RequireTask {
			hint = "No task selected. Pomodoros count toward today only."
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render(hint),
		))
	}

	name := highlightStyle.Render(task.Text)
	if task.Completed {
		name = doneStyle.Render(task.Text) + successStyle.Render(" ✓")
	}
	rows := []string{
		title,
		name,
		mutedStyle.Render(fmt.Sprintf("%s pomodoros", tomatoes(task.CompletedPomodoros, task.EstimatedPomodoros))),
	}
	if task.Notes != "" {
		rows = append(rows, mutedStyle.Render(truncate(task.Notes, max(10, w-8))))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (f focusModel) renderTodayPanel(w int) string {
	today := f.engine.Today()
	title := titleStyle.Render("Today")
	line := fmt.Sprintf("%s pomodoros  %s focused",
		highlightStyle.Render(fmt.Sprintf("%d", today.CompletedPomodoros)),
		highlightStyle.Render(pomodoro.FormatFocus(today.TotalFocusTime)),
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, line))
}
