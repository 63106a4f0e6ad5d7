package pomodoro

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskText is the longest task label kept, in runes.
const MaxTaskText = 100

// Registry owns the task collection. Every mutation replaces the whole
// collection in the backing store.
type Registry struct {
	store Store
	tasks []Task

	newID func() string
	now   func() time.Time
}

// NewRegistry loads the task collection from s. A nil store keeps tasks in memory only.
func NewRegistry(s Store) *Registry {
	return &Registry{
		store: s,
		tasks: loadCollection[Task](s, TasksKey),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Add appends a new task. Blank text is rejected and reported with ok=false.
func (r *Registry) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	if utf8.RuneCountInString(text) > MaxTaskText {
		text = strings.TrimSpace(string([]rune(text)[:MaxTaskText]))
	}

	t := Task{
		ID:                 r.newID(),
		Text:               text,
		EstimatedPomodoros: 1,
		CreatedAt:          r.now().UTC(),
	}
	r.tasks = append(r.tasks, t)
	r.save()
	return t, true
}

// Delete removes the task with id.
func (r *Registry) Delete(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
	r.save()
	return true
}

// ToggleComplete flips the completed flag regardless of pomodoro counts.
func (r *Registry) ToggleComplete(id string) bool {
	return r.update(id, func(t *Task) {
		t.Completed = !t.Completed
	})
}

// AdjustEstimate changes the estimate by delta, never going below 1.
func (r *Registry) AdjustEstimate(id string, delta int) bool {
	return r.update(id, func(t *Task) {
		t.EstimatedPomodoros = max(1, t.EstimatedPomodoros+delta)
	})
}

// SetNotes replaces the free-text notes of a task.
func (r *Registry) SetNotes(id, notes string) bool {
	return r.update(id, func(t *Task) {
		t.Notes = strings.TrimRight(notes, " \t\n")
	})
}

// Get returns a copy of the task with id.
func (r *Registry) Get(id string) (Task, bool) {
	i := r.index(id)
	if i < 0 {
		return Task{}, false
	}
	return r.tasks[i], true
}

// List returns the tasks in insertion order.
func (r *Registry) List() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *Registry) Len() int {
	return len(r.tasks)
}

// creditPomodoro records one finished work phase against a task and
// marks it completed once the estimate is reached.
func (r *Registry) creditPomodoro(id string) (Task, bool) {
	var credited Task
	ok := r.update(id, func(t *Task) {
		t.CompletedPomodoros++
		if t.CompletedPomodoros >= t.EstimatedPomodoros {
			t.Completed = true
		}
		credited = *t
	})
	return credited, ok
}

func (r *Registry) update(id string, fn func(*Task)) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	next := make([]Task, len(r.tasks))
	copy(next, r.tasks)
	fn(&next[i])
	r.tasks = next
	r.save()
	return true
}

func (r *Registry) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) save() {
	saveCollection(r.store, TasksKey, r.tasks)
}
