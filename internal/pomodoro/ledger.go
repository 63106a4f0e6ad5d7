package pomodoro

import "sort"

// Ledger owns per-day aggregates of completed work phases.
type Ledger struct {
	store   Store
	entries []DailyStat
}

// NewLedger loads the statistics collection from s. A nil store keeps them in memory only.
func NewLedger(s Store) *Ledger {
	return &Ledger{
		store:   s,
		entries: loadCollection[DailyStat](s, StatsKey),
	}
}

// RecordCompletion counts one finished work phase on date, creating the
// day's entry on first use.
func (l *Ledger) RecordCompletion(date string, focusMinutes int) DailyStat {
	if focusMinutes < 0 {
		focusMinutes = 0
	}

	next := make([]DailyStat, len(l.entries), len(l.entries)+1)
	copy(next, l.entries)

	i := indexOfDate(next, date)
	if i < 0 {
		next = append(next, DailyStat{Date: date})
		i = len(next) - 1
	}
	next[i].CompletedPomodoros++
	next[i].TotalFocusTime += focusMinutes

	l.entries = next
	saveCollection(l.store, StatsKey, l.entries)
	return next[i]
}

// Get returns the entry for date, or a zero-valued entry carrying the date.
func (l *Ledger) Get(date string) DailyStat {
	if i := indexOfDate(l.entries, date); i >= 0 {
		return l.entries[i]
	}
	return DailyStat{Date: date}
}

// All returns every entry ordered by date.
func (l *Ledger) All() []DailyStat {
	out := make([]DailyStat, len(l.entries))
	copy(out, l.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Between returns entries with from <= date < to, ordered by date.
func (l *Ledger) Between(from, to string) []DailyStat {
	var out []DailyStat
	for _, s := range l.All() {
		if s.Date >= from && s.Date < to {
			out = append(out, s)
		}
	}
	return out
}

// Totals sums every entry.
func (l *Ledger) Totals() (pomodoros, focusMinutes int) {
	for _, s := range l.entries {
		pomodoros += s.CompletedPomodoros
		focusMinutes += s.TotalFocusTime
	}
	return pomodoros, focusMinutes
}

func indexOfDate(entries []DailyStat, date string) int {
	for i := range entries {
		if entries[i].Date == date {
			return i
		}
	}
	return -1
}
