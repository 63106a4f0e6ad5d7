package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/tomodo/internal/pomodoro"
	"github.com/sadopc/tomodo/internal/store"
)

const fileName = "config.yaml"

// Config holds every user-tunable setting.
type Config struct {
	Timer   Timer   `yaml:"timer"`
	Storage Storage `yaml:"storage"`
	Debug   bool    `yaml:"debug"`
	LogFile string  `yaml:"log_file,omitempty"`
}

// Timer settings are kept in whole minutes.
type Timer struct {
	WorkMinutes  int  `yaml:"work_minutes"`
	BreakMinutes int  `yaml:"break_minutes"`
	RequireTask  bool `yaml:"require_task"`
	StartMuted   bool `yaml:"start_muted"`
}

type Storage struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timer: Timer{
			WorkMinutes:  25,
			BreakMinutes: 5,
			RequireTask:  true,
		},
		Storage: Storage{
			Backend: store.BackendSQLite,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tomodo/config.yaml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "tomodo", fileName), nil
}

// Load layers the YAML file at path and TOMODO_* variables over the
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.LoadFromEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile returns the defaults overlaid with the YAML file at path, without
// environment overrides. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadFromEnvironment applies TOMODO_* overrides. Unparseable values are ignored.
func (c *Config) LoadFromEnvironment() {
	if v := os.Getenv("TOMODO_WORK_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timer.WorkMinutes = n
		}
	}
	if v := os.Getenv("TOMODO_BREAK_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timer.BreakMinutes = n
		}
	}
	if v := os.Getenv("TOMODO_REQUIRE_TASK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Timer.RequireTask = b
		}
	}
	if v := os.Getenv("TOMODO_START_MUTED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Timer.StartMuted = b
		}
	}
	if v := os.Getenv("TOMODO_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("TOMODO_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("TOMODO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		} else {
			c.Debug = true
		}
	}
	if v := os.Getenv("TOMODO_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// Overrides carries command line flags. Nil fields leave the config alone.
type Overrides struct {
	WorkMinutes  *int
	BreakMinutes *int
	RequireTask  *bool
	Backend      *string
	Path         *string
	Debug        *bool
}

// Apply copies every set override into c and re-validates.
func (c *Config) Apply(o Overrides) error {
	if o.WorkMinutes != nil {
		c.Timer.WorkMinutes = *o.WorkMinutes
	}
	if o.BreakMinutes != nil {
		c.Timer.BreakMinutes = *o.BreakMinutes
	}
	if o.RequireTask != nil {
		c.Timer.RequireTask = *o.RequireTask
	}
	if o.Backend != nil {
		c.Storage.Backend = *o.Backend
	}
	if o.Path != nil {
		c.Storage.Path = *o.Path
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	return c.Validate()
}

// Validate rejects durations under a minute and unknown backends.
func (c *Config) Validate() error {
	if c.Timer.WorkMinutes < 1 {
		return &ConfigError{Field: "timer.work_minutes", Message: "work duration must be at least 1 minute"}
	}
	if c.Timer.BreakMinutes < 1 {
		return &ConfigError{Field: "timer.break_minutes", Message: "break duration must be at least 1 minute"}
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case store.BackendSQLite, store.BackendJSON:
	case "":
		c.Storage.Backend = store.BackendSQLite
	default:
		return &ConfigError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", c.Storage.Backend)}
	}
	return nil
}

// Engine converts the timer settings for the core engine.
func (c *Config) Engine() pomodoro.Config {
	return pomodoro.Config{
		WorkDuration:  time.Duration(c.Timer.WorkMinutes) * time.Minute,
		BreakDuration: time.Duration(c.Timer.BreakMinutes) * time.Minute,
		RequireTask:   c.Timer.RequireTask,
		StartMuted:    c.Timer.StartMuted,
	}
}

// LogPath returns the debug log file, defaulting next to the config file.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tomodo-debug.log"
	}
	return filepath.Join(dir, "tomodo", "debug.log")
}

// ConfigError is a validation failure on a single field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
