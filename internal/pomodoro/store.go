package pomodoro

import (
	"encoding/json"

	"github.com/sadopc/tomodo/internal/logging"
)

// Storage keys for the two persisted collections.
const (
	TasksKey = "todos"
	StatsKey = "pomodoro-stats"
)

// Store is the durable key-value capability the registries persist through.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// loadCollection reads a JSON array stored under key.
// Missing, unreadable or unparsable values yield an empty slice.
func loadCollection[T any](s Store, key string) []T {
	out := make([]T, 0)
	if s == nil {
		return out
	}
	raw, ok, err := s.Get(key)
	if err != nil {
		logging.Warnf("load %s: %v", key, err)
		return out
	}
	if !ok || raw == "" {
		return out
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logging.Warnf("parse %s: %v", key, err)
		return out
	}
	if items == nil {
		return out
	}
	return items
}

// saveCollection writes items under key. Failures are logged and the
// in-memory state stays authoritative.
func saveCollection[T any](s Store, key string, items []T) {
	if s == nil {
		return
	}
	if items == nil {
		items = make([]T, 0)
	}
	data, err := json.Marshal(items)
	if err != nil {
		logging.Warnf("marshal %s: %v", key, err)
		return
	}
	if err := s.Set(key, string(data)); err != nil {
		logging.Warnf("save %s: %v", key, err)
	}
}
