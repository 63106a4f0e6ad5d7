package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomodo/internal/config"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

type settingsModel struct {
	engine *pomodoro.Engine
	cfg    *config.Config
	path   string // config file; empty disables saving
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workMinutes  *string
	breakMinutes *string
	requireTask  *bool
	startMuted   *bool
}

func newSettingsModel(e *pomodoro.Engine, cfg *config.Config, path string) settingsModel {
	if cfg == nil {
		cfg = config.Default()
	}
	wm, bm := "", ""
	rt, sm := false, false
	return settingsModel{
		engine:       e,
		cfg:          cfg,
		path:         path,
		workMinutes:  &wm,
		breakMinutes: &bm,
		requireTask:  &rt,
		startMuted:   &sm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter), key.Matches(km, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.workMinutes = strconv.Itoa(s.cfg.Timer.WorkMinutes)
	*s.breakMinutes = strconv.Itoa(s.cfg.Timer.BreakMinutes)
	*s.requireTask = s.cfg.Timer.RequireTask
	*s.startMuted = s.cfg.Timer.StartMuted

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Validate(validateMinutes).Value(s.workMinutes),
			huh.NewInput().Title("Break (min)").Validate(validateMinutes).Value(s.breakMinutes),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Require a selected task to start").Value(s.requireTask),
			huh.NewConfirm().Title("Start muted").Value(s.startMuted),
		).Title("Behaviour"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.apply(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
			}
		}
		return s, func() tea.Msg { return configSavedMsg{} }
	}

	return s, cmd
}

// apply validates the form values, updates the engine and writes the config file.
func (s settingsModel) apply() error {
	next := *s.cfg
	next.Timer.WorkMinutes, _ = strconv.Atoi(*s.workMinutes)
	next.Timer.BreakMinutes, _ = strconv.Atoi(*s.breakMinutes)
	next.Timer.RequireTask = *s.requireTask
	next.Timer.StartMuted = *s.startMuted

	if err := next.Validate(); err != nil {
		return err
	}

	*s.cfg = next
	s.engine.SetConfig(next.Engine())

	if s.path == "" {
		return nil
	}

	// Only the form's fields are written; run-time overrides stay out of the file.
	onDisk, err := config.LoadFile(s.path)
	if err != nil {
		return err
	}
	onDisk.Timer = next.Timer
	return config.Save(s.path, onDisk)
}

func validateMinutes(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New("enter a whole number of minutes")
	}
	if n < 1 {
		return errors.New("must be at least 1 minute")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	rows := []string{title, ""}
	for _, kv := range s.rows() {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}

	rows = append(rows, "")
	if s.path != "" {
		rows = append(rows, mutedStyle.Render("Saved to "+s.path))
	}
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) rows() [][2]string {
	storagePath := s.cfg.Storage.Path
	if storagePath == "" {
		storagePath = "(default)"
	}
	return [][2]string{
		{"Work", fmt.Sprintf("%d min", s.cfg.Timer.WorkMinutes)},
		{"Break", fmt.Sprintf("%d min", s.cfg.Timer.BreakMinutes)},
		{"Require task", onOff(s.cfg.Timer.RequireTask)},
		{"Start muted", onOff(s.cfg.Timer.StartMuted)},
		{"Storage", s.cfg.Storage.Backend},
		{"Storage path", storagePath},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
