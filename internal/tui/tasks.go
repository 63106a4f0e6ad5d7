package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

type tasksModel struct {
	engine *pomodoro.Engine
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "task", "notes"

	// Form field pointers (survive value copies)
	formText  *string
	formNotes *string

	editingID string
}

func newTasksModel(e *pomodoro.Engine) tasksModel {
	text, notes := "", ""
	return tasksModel{
		engine:    e,
		formText:  &text,
		formNotes: &notes,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t tasksModel) tasks() []pomodoro.Task {
	return t.engine.Tasks().List()
}

func (t tasksModel) current() (pomodoro.Task, bool) {
	list := t.tasks()
	if t.cursor < 0 || t.cursor >= len(list) {
		return pomodoro.Task{}, false
	}
	return list[t.cursor], true
}

func (t *tasksModel) clampCursor() {
	n := t.engine.Tasks().Len()
	if t.cursor >= n {
		t.cursor = max(0, n-1)
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}
	reg := t.engine.Tasks()

	switch {
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		if t.cursor < reg.Len()-1 {
			t.cursor++
		}
	case key.Matches(km, keys.New):
		return t.showNewTaskForm()
	case key.Matches(km, keys.Enter):
		if task, ok := t.current(); ok {
			if t.engine.SelectedID() == task.ID {
				t.engine.Deselect()
				return t, statusCmd("Task deselected")
			}
			t.engine.Select(task.ID)
			return t, statusCmd("Focusing on " + truncate(task.Text, 40))
		}
	case key.Matches(km, keys.Back):
		if t.engine.SelectedID() != "" {
			t.engine.Deselect()
			return t, statusCmd("Task deselected")
		}
	case key.Matches(km, keys.Complete):
		if task, ok := t.current(); ok {
			reg.ToggleComplete(task.ID)
		}
	case key.Matches(km, keys.Delete):
		if task, ok := t.current(); ok {
			wasRunning := t.engine.Running()
			t.engine.DeleteTask(task.ID)
			t.clampCursor()
			if wasRunning && !t.engine.Running() {
				return t, statusCmd("Deleted the active task. Timer paused.")
			}
		}
	case key.Matches(km, keys.More):
		if task, ok := t.current(); ok {
			reg.AdjustEstimate(task.ID, 1)
		}
	case key.Matches(km, keys.Less):
		if task, ok := t.current(); ok {
			reg.AdjustEstimate(task.ID, -1)
		}
	case key.Matches(km, keys.Notes):
		if _, ok := t.current(); ok {
			return t.showNotesForm()
		}
	}
	return t, nil
}

func (t tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*t.formText = ""
	t.formType = "task"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				CharLimit(pomodoro.MaxTaskText).
				Value(t.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) showNotesForm() (tasksModel, tea.Cmd) {
	task, _ := t.current()
	*t.formNotes = task.Notes
	t.formType = "notes"
	t.editingID = task.ID

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Notes for " + truncate(task.Text, 40)).
				Value(t.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		switch t.formType {
		case "task":
			if _, ok := t.engine.Tasks().Add(*t.formText); ok {
				t.cursor = t.engine.Tasks().Len() - 1
				return t, nil
			}
			return t, statusCmd("Task text cannot be empty")
		case "notes":
			t.engine.Tasks().SetNotes(t.editingID, *t.formNotes)
		}
		return t, nil
	}

	return t, cmd
}

func (t tasksModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.formType == "notes" {
			title = titleStyle.Render("Edit Notes")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(t.width - 4).Render(content)
	}
	return t.renderTaskList()
}

func (t tasksModel) renderTaskList() string {
	w := t.width - 4
	list := t.tasks()

	done := 0
	for _, task := range list {
		if task.Completed {
			done++
		}
	}
	title := titleStyle.Render("Tasks") + mutedStyle.Render(fmt.Sprintf("  %d/%d done", done, len(list)))

	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	selected := t.engine.SelectedID()
	textWidth := max(10, w-24)
	for i, task := range list {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		if task.Completed {
			check = successStyle.Render("[✓]")
		}

		text := truncate(task.Text, textWidth)
		if task.Completed {
			text = doneStyle.Render(text)
		} else {
			text = style.Render(text)
		}

		marker := " "
		if task.ID == selected {
			marker = workStyle.Render("●")
		}

		notes := ""
		if task.Notes != "" {
			notes = mutedStyle.Render(" ✎")
		}

		count := mutedStyle.Render(fmt.Sprintf(" %s", tomatoes(task.CompletedPomodoros, task.EstimatedPomodoros)))
		rows = append(rows, style.Render(cursor)+marker+" "+check+" "+text+count+notes)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: focus  c: done  +/-: estimate  e: notes  d: delete  esc: deselect"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
