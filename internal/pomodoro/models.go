package pomodoro

import "time"

// Task is a unit of work with an estimated and completed pomodoro count.
type Task struct {
	ID                 string    `json:"id"`
	Text               string    `json:"text"`
	Completed          bool      `json:"completed"`
	EstimatedPomodoros int       `json:"estimatedPomodoros"`
	CompletedPomodoros int       `json:"completedPomodoros"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// DailyStat aggregates completed work phases for one calendar day.
type DailyStat struct {
	Date               string `json:"date"` // YYYY-MM-DD, local time
	CompletedPomodoros int    `json:"completedPomodoros"`
	TotalFocusTime     int    `json:"totalFocusTime"` // minutes
}

// Phase is the current countdown mode.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "work"
}

// Status is the countdown's activity state.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusRunning: "running",
	StatusPaused:  "paused",
}

func (s Status) String() string {
	return statusNames[s]
}

// Completion describes one phase-completion transaction.
type Completion struct {
	Ended   Phase
	Started Phase
	Date    string
	Stat    DailyStat // zero unless Ended == PhaseWork
	Task    *Task     // credited task, if any
}

const dateLayout = "2006-01-02"

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Local().Format(dateLayout)
}
