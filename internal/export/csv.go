package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sadopc/tomodo/internal/pomodoro"
)

// ToCSV writes one row per day of statistics to path.
func ToCSV(stats []pomodoro.DailyStat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, stats)
}

func WriteCSV(out io.Writer, stats []pomodoro.DailyStat) error {
	w := csv.NewWriter(out)

	// Header
	if err := w.Write([]string{"Date", "Pomodoros", "Focus (min)", "Focus"}); err != nil {
		return err
	}

	for _, s := range stats {
		row := []string{
			s.Date,
			strconv.Itoa(s.CompletedPomodoros),
			strconv.Itoa(s.TotalFocusTime),
			formatMinutes(s.TotalFocusTime),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
