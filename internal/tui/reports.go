package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

type reportMetric int

const (
	metricPomodoros reportMetric = iota
	metricFocus
)

type reportsModel struct {
	engine *pomodoro.Engine
	width  int
	height int

	metric reportMetric
	offset int // 7-day blocks back from today (0 = current)
	now    func() time.Time

	days  []pomodoro.DailyStat
	chart barchart.Model
}

func newReportsModel(e *pomodoro.Engine) reportsModel {
	return reportsModel{
		engine: e,
		now:    time.Now,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.refresh()
}

// dateRange returns the half-open local-day window [from, to) shown on screen.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now().Local()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-7*r.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

// refresh reloads the window from the ledger, filling empty days with zero entries.
func (r *reportsModel) refresh() {
	from, to := r.dateRange()
	stats := r.engine.Stats().Between(pomodoro.DateKey(from), pomodoro.DateKey(to))

	byDate := make(map[string]pomodoro.DailyStat, len(stats))
	for _, s := range stats {
		byDate[s.Date] = s
	}

	r.days = make([]pomodoro.DailyStat, 0, 7)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		date := pomodoro.DateKey(d)
		s, ok := byDate[date]
		if !ok {
			s = pomodoro.DailyStat{Date: date}
		}
		r.days = append(r.days, s)
	}
	r.buildChart()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	switch {
	case key.Matches(km, keys.Left):
		r.offset++
		r.refresh()
	case key.Matches(km, keys.Right):
		if r.offset > 0 {
			r.offset--
		}
		r.refresh()
	case key.Matches(km, keys.Enter):
		if r.metric == metricPomodoros {
			r.metric = metricFocus
		} else {
			r.metric = metricPomodoros
		}
		r.refresh()
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	color := colorWork
	if r.metric == metricFocus {
		color = colorHighlight
	}

	var bars []barchart.BarData
	for _, s := range r.days {
		label := s.Date
		if d, err := time.ParseInLocation("2006-01-02", s.Date, time.Local); err == nil {
			label = d.Format("Mon 02")
		}

		value := float64(s.CompletedPomodoros)
		if r.metric == metricFocus {
			value = float64(s.TotalFocusTime) / 60.0
		}
		style := lipgloss.NewStyle().Foreground(color)
		if value == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: r.metricName(), Value: value, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) metricName() string {
	if r.metric == metricFocus {
		return "Focus (h)"
	}
	return "Pomodoros"
}

func (r reportsModel) view() string {
	w := r.width - 4

	pomTab := inactiveTabStyle.Render("Pomodoros")
	focusTab := inactiveTabStyle.Render("Focus")
	if r.metric == metricPomodoros {
		pomTab = activeTabStyle.Render("Pomodoros")
	} else {
		focusTab = activeTabStyle.Render("Focus")
	}
	metricTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, pomTab, focusTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", metricTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch metric")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Date", "Pomodoros", "Focus"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 34)))))

	totalPoms, totalMins := 0, 0
	for _, s := range r.days {
		totalPoms += s.CompletedPomodoros
		totalMins += s.TotalFocusTime
		if s.CompletedPomodoros == 0 && s.TotalFocusTime == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10d %10s", s.Date, s.CompletedPomodoros, pomodoro.FormatFocus(s.TotalFocusTime)))
	}

	if totalPoms == 0 && totalMins == 0 {
		return mutedStyle.Render("  No pomodoros in this period")
	}

	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 34)))))
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %10d %10s", "Total", totalPoms, pomodoro.FormatFocus(totalMins))))
	return strings.Join(rows, "\n")
}
