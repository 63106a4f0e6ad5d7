package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomodo/internal/config"
	"github.com/sadopc/tomodo/internal/export"
	"github.com/sadopc/tomodo/internal/logging"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

// App is the root Bubble Tea model.
type App struct {
	engine *pomodoro.Engine
	clock  *Clock
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	focus    focusModel
	tasks    tasksModel
	reports  reportsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp wires the views to an engine whose clock is clk. cfgPath is where
// the settings view saves; an empty path keeps changes in memory.
func NewApp(e *pomodoro.Engine, clk *Clock, cfg *config.Config, cfgPath string) App {
	h := help.New()
	h.ShowAll = false

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return App{
		engine:     e,
		clock:      clk,
		activeView: viewFocus,
		exportDir:  home,
		focus:      newFocusModel(e),
		tasks:      newTasksModel(e),
		reports:    newReportsModel(e),
		settings:   newSettingsModel(e, cfg, cfgPath),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.clock.cmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	if w, ok := logging.TakeWarning(); ok {
		a.setStatus("Storage: "+w, true)
	}
	// Engine intents may have armed the clock; start its tick chain.
	return a, tea.Batch(cmd, a.clock.cmd())
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.focus.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Toggle):
			return a.toggleTimer()
		case key.Matches(msg, keys.Reset):
			a.engine.Reset()
			a.setStatus("Timer reset", false)
			return a, nil
		case key.Matches(msg, keys.Mute):
			a.engine.ToggleMute()
			if a.engine.Muted() {
				a.setStatus("Sound off", false)
			} else {
				a.setStatus("Sound on", false)
			}
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewFocus
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTasks
			a.tasks.clampCursor()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			a.reports.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewReports {
				a.reports.refresh()
			}
			return a, nil
		}

	case clockTickMsg:
		cmd := a.clock.fire(msg.gen)
		if c, ok := a.engine.TakeCompletion(); ok {
			a.setStatus(completionText(c), false)
			if a.activeView == viewReports {
				a.reports.refresh()
			}
		}
		return a, cmd

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case configSavedMsg:
		a.setStatus("Settings saved", false)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

func (a App) toggleTimer() (App, tea.Cmd) {
	e := a.engine
	if !e.Running() && e.Config().RequireTask {
		if _, ok := e.SelectedTask(); !ok {
			a.setStatus("Select a task first (2: tasks, enter: focus)", false)
			return a, nil
		}
	}

	e.Toggle()
	switch e.Status() {
	case pomodoro.StatusRunning:
		a.setStatus("Timer started", false)
	case pomodoro.StatusPaused:
		a.setStatus("Timer paused", false)
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewFocus:
		content = a.focus.view()
	case viewTasks:
		content = a.tasks.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("tomodo")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator in footer
	timerInfo := ""
	switch a.engine.Status() {
	case pomodoro.StatusRunning:
		isBreak := a.engine.Phase() == pomodoro.PhaseBreak
		timerInfo = phaseStyle(isBreak).Render(" ● " + a.engine.Display())
	case pomodoro.StatusPaused:
		timerInfo = warningStyle.Render(" ⏸ " + a.engine.Display())
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV (daily stats)", "JSON (tasks + stats)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the engine state here; only file writing runs in the command.
func (a App) doExport(format int) tea.Cmd {
	tasks := a.engine.Tasks().List()
	stats := a.engine.Stats().All()
	dir := a.exportDir
	dateStr := time.Now().Format("2006-01-02")

	return func() tea.Msg {
		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("tomodo-export-%s.csv", dateStr))
			if err := export.ToCSV(stats, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("tomodo-export-%s.json", dateStr))
			if err := export.ToJSON(tasks, stats, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
