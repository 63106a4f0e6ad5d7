package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Backend is the key-value capability shared by every storage adapter.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*JSONFile)(nil)
)

// Open returns the backend named by kind rooted at path. An empty path
// selects the default location for that backend.
func Open(kind, path string) (Backend, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = BackendSQLite
	}

	if path == "" {
		p, err := DefaultPath(kind)
		if err != nil {
			return nil, err
		}
		path = p
	}

	switch kind {
	case BackendSQLite:
		return New(path)
	case BackendJSON:
		return NewJSONFile(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected %q or %q", kind, BackendSQLite, BackendJSON)
	}
}

// DefaultPath returns the default file for a backend.
func DefaultPath(kind string) (string, error) {
	switch kind {
	case BackendSQLite:
		return DefaultDBPath()
	case BackendJSON:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, "tomodo", "tomodo.json"), nil
	default:
		return "", fmt.Errorf("unknown storage backend: %q", kind)
	}
}
