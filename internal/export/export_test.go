package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/tomodo/internal/pomodoro"
)

func sampleData() ([]pomodoro.Task, []pomodoro.DailyStat) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tasks := []pomodoro.Task{
		{
			ID:                 "a1",
			Text:               "write report",
			Completed:          true,
			EstimatedPomodoros: 2,
			CompletedPomodoros: 2,
			Notes:              "draft first",
			CreatedAt:          created,
		},
		{
			ID:                 "b2",
			Text:               "review PR",
			EstimatedPomodoros: 3,
			CompletedPomodoros: 1,
		},
	}

	stats := []pomodoro.DailyStat{
		{Date: "2026-03-01", CompletedPomodoros: 3, TotalFocusTime: 75},
		{Date: "2026-03-02", CompletedPomodoros: 1, TotalFocusTime: 25},
	}

	return tasks, stats
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	_, stats := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(stats, path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"Date", "Pomodoros", "Focus (min)", "Focus"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "2026-03-01" {
		t.Fatalf("Date = %q, want 2026-03-01", row[0])
	}
	if row[1] != "3" {
		t.Fatalf("Pomodoros = %q, want 3", row[1])
	}
	if row[2] != "75" {
		t.Fatalf("Focus (min) = %q, want 75", row[2])
	}
	if row[3] != "01:15" {
		t.Fatalf("Focus = %q, want 01:15", row[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestWriteCSVToBuffer(t *testing.T) {
	_, stats := sampleData()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, stats); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[2] != "2026-03-02,1,25,00:25" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	tasks, stats := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(tasks, stats, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if len(result.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(result.Days))
	}

	want := jsonTotals{Pomodoros: 4, FocusMinutes: 100, Tasks: 2, Completed: 1}
	if result.Totals != want {
		t.Fatalf("totals = %+v, want %+v", result.Totals, want)
	}

	task := result.Tasks[0]
	if task.ID != "a1" || task.Text != "write report" {
		t.Fatalf("unexpected first task %+v", task)
	}
	if task.Notes != "draft first" {
		t.Fatalf("Notes = %q", task.Notes)
	}
	if task.CreatedAt != "2026-03-01T09:00:00Z" {
		t.Fatalf("CreatedAt = %q", task.CreatedAt)
	}

	// zero creation time is omitted
	if result.Tasks[1].CreatedAt != "" {
		t.Fatalf("expected empty created_at, got %q", result.Tasks[1].CreatedAt)
	}

	if result.Days[0].Focus != "01:15" {
		t.Fatalf("Focus = %q, want 01:15", result.Days[0].Focus)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	err := ToJSON(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"tasks": []`) {
		t.Fatalf("empty export should carry an empty tasks array:\n%s", data)
	}

	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Totals != (jsonTotals{}) {
		t.Fatalf("totals = %+v, want zero", result.Totals)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamp(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, nil); err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	json.Unmarshal(buf.Bytes(), &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{25, "00:25"},
		{60, "01:00"},
		{125, "02:05"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
