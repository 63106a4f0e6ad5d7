package pomodoro

import "fmt"

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress returns 1 - remaining/total clamped to [0, 1].
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 1 - float64(remaining)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatFocus renders a minute count as "1h 05m" or "25m".
func FormatFocus(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
