package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TOMODO_WORK_MINUTES",
	"TOMODO_BREAK_MINUTES",
	"TOMODO_REQUIRE_TASK",
	"TOMODO_START_MUTED",
	"TOMODO_BACKEND",
	"TOMODO_DB_PATH",
	"TOMODO_DEBUG",
	"TOMODO_LOG_FILE",
}

// clearEnv blanks every TOMODO_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 25, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.True(t, cfg.Timer.RequireTask)
	assert.False(t, cfg.Timer.StartMuted)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "timer:\n  work_minutes: 50\nstorage:\n  backend: json\n  path: /tmp/t.json\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.True(t, cfg.Timer.RequireTask)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/t.json", cfg.Storage.Path)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer:\n  work_minutes: 50\n"), 0o644))

	t.Setenv("TOMODO_WORK_MINUTES", "40")
	t.Setenv("TOMODO_BREAK_MINUTES", "not-a-number")
	t.Setenv("TOMODO_REQUIRE_TASK", "false")
	t.Setenv("TOMODO_START_MUTED", "true")
	t.Setenv("TOMODO_BACKEND", "JSON")
	t.Setenv("TOMODO_DEBUG", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes, "unparseable value is ignored")
	assert.False(t, cfg.Timer.RequireTask)
	assert.True(t, cfg.Timer.StartMuted)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.True(t, cfg.Debug)
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOMODO_WORK_MINUTES", "40")
	t.Setenv("TOMODO_DB_PATH", "/tmp/env.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer:\n  work_minutes: 30\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Timer.WorkMinutes)
	assert.Empty(t, cfg.Storage.Path)

	layered, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, layered.Timer.WorkMinutes)
	assert.Equal(t, "/tmp/env.db", layered.Storage.Path)
}

func TestLoadFileMissingAndEmptyPath(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero work", func(c *Config) { c.Timer.WorkMinutes = 0 }, "timer.work_minutes"},
		{"negative break", func(c *Config) { c.Timer.BreakMinutes = -1 }, "timer.break_minutes"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"empty backend defaults", func(c *Config) { c.Storage.Backend = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantErr, ce.Field)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	work, guard, backend := 45, false, "json"
	require.NoError(t, cfg.Apply(Overrides{WorkMinutes: &work, RequireTask: &guard, Backend: &backend}))
	assert.Equal(t, 45, cfg.Timer.WorkMinutes)
	assert.False(t, cfg.Timer.RequireTask)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)

	zero := 0
	assert.Error(t, cfg.Apply(Overrides{BreakMinutes: &zero}))
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Timer.WorkMinutes = 30
	cfg.Timer.StartMuted = true
	cfg.Storage.Backend = "json"

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEngineConversion(t *testing.T) {
	cfg := Default()
	cfg.Timer.BreakMinutes = 10
	ec := cfg.Engine()
	assert.Equal(t, 25*time.Minute, ec.WorkDuration)
	assert.Equal(t, 10*time.Minute, ec.BreakDuration)
	assert.True(t, ec.RequireTask)
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.LogPath())
	cfg.LogFile = "/tmp/x.log"
	assert.Equal(t, "/tmp/x.log", cfg.LogPath())
}
