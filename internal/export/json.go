package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/tomodo/internal/pomodoro"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Totals     jsonTotals `json:"totals"`
	Tasks      []jsonTask `json:"tasks"`
	Days       []jsonDay  `json:"days"`
}

type jsonTotals struct {
	Pomodoros    int `json:"pomodoros"`
	FocusMinutes int `json:"focus_minutes"`
	Tasks        int `json:"tasks"`
	Completed    int `json:"completed_tasks"`
}

type jsonTask struct {
	ID                 string `json:"id"`
	Text               string `json:"text"`
	Completed          bool   `json:"completed"`
	EstimatedPomodoros int    `json:"estimated_pomodoros"`
	CompletedPomodoros int    `json:"completed_pomodoros"`
	Notes              string `json:"notes,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

type jsonDay struct {
	Date         string `json:"date"`
	Pomodoros    int    `json:"pomodoros"`
	FocusMinutes int    `json:"focus_minutes"`
	Focus        string `json:"focus"`
}

// ToJSON writes tasks and daily statistics to path as indented JSON.
func ToJSON(tasks []pomodoro.Task, stats []pomodoro.DailyStat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, tasks, stats); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, tasks []pomodoro.Task, stats []pomodoro.DailyStat) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tasks:      []jsonTask{},
		Days:       []jsonDay{},
	}

	for _, t := range tasks {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		if t.Completed {
			export.Totals.Completed++
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:                 t.ID,
			Text:               t.Text,
			Completed:          t.Completed,
			EstimatedPomodoros: t.EstimatedPomodoros,
			CompletedPomodoros: t.CompletedPomodoros,
			Notes:              t.Notes,
			CreatedAt:          created,
		})
	}
	export.Totals.Tasks = len(tasks)

	for _, s := range stats {
		export.Totals.Pomodoros += s.CompletedPomodoros
		export.Totals.FocusMinutes += s.TotalFocusTime
		export.Days = append(export.Days, jsonDay{
			Date:         s.Date,
			Pomodoros:    s.CompletedPomodoros,
			FocusMinutes: s.TotalFocusTime,
			Focus:        formatMinutes(s.TotalFocusTime),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}
