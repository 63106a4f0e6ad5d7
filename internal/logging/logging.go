// Package logging routes diagnostic output. The terminal belongs to the TUI,
// so log lines go to a file; debug lines are written only when enabled.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// EnvDebug enables debug output when set to any non-empty value.
const EnvDebug = "TOMODO_DEBUG"

var (
	debug atomic.Bool

	warnMu   sync.Mutex
	lastWarn string
)

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debug.Load() || os.Getenv(EnvDebug) != ""
}

// SetDebug turns debug output on or off.
func SetDebug(on bool) {
	debug.Store(on)
}

// Setup routes the standard logger to path. Warnings are always written;
// debug lines only when on. The returned closer is never nil.
func Setup(path string, on bool) (io.Closer, error) {
	SetDebug(on)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nopCloser{}, err
	}
	f, err := tea.LogToFile(path, "tomodo")
	if err != nil {
		log.SetOutput(io.Discard)
		return nopCloser{}, err
	}
	return f, nil
}

// UseWriter sends log output to w, for commands that do not own the terminal.
func UseWriter(w io.Writer) {
	log.SetOutput(w)
	log.SetPrefix("tomodo ")
}

// Debugf logs only when debug output is enabled.
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		log.Printf("debug: "+format, args...)
	}
}

// Warnf logs a recoverable failure and keeps it for TakeWarning.
func Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Print("warn: " + msg)

	warnMu.Lock()
	lastWarn = msg
	warnMu.Unlock()
}

// TakeWarning returns the most recent warning once.
func TakeWarning() (string, bool) {
	warnMu.Lock()
	defer warnMu.Unlock()
	if lastWarn == "" {
		return "", false
	}
	msg := lastWarn
	lastWarn = ""
	return msg, true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
