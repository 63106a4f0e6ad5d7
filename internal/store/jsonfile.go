package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile keeps every key in a single JSON object on disk. Each Set
// rewrites the file through a temp file and rename.
type JSONFile struct {
	Path string
	data map[string]string

	// loadErr is reported by Get until the next successful write.
	loadErr error
	// locked is set when the file exists but could not be read; writes are
	// refused so its contents are never replaced.
	locked bool
}

// NewJSONFile loads path. A missing file starts empty. A file that does not
// parse is moved to path+".corrupt" and the store starts empty; a file that
// cannot be read leaves the store read-only. Both cases surface through Get.
func NewJSONFile(path string) *JSONFile {
	f := &JSONFile{Path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f
	case err != nil:
		f.loadErr = fmt.Errorf("read store: %w", err)
		f.locked = true
		return f
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		backup := path + ".corrupt"
		if rerr := os.Rename(path, backup); rerr != nil {
			f.loadErr = fmt.Errorf("parse store: %w", errors.Join(err, rerr))
			f.locked = true
			return f
		}
		f.loadErr = fmt.Errorf("parse store: %w (moved to %s)", err, backup)
		return f
	}
	if m != nil {
		f.data = m
	}
	return f
}

func (f *JSONFile) Get(key string) (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *JSONFile) Set(key, value string) error {
	if f.locked {
		return fmt.Errorf("refusing to overwrite unreadable store %s: %w", f.Path, f.loadErr)
	}

	prev, existed := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if existed {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	f.loadErr = nil
	return nil
}

func (f *JSONFile) Close() error {
	return nil
}

func (f *JSONFile) flush() error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write store: %w", err)
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
