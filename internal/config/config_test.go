package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Rollover.Schedule, cfg.Rollover.Schedule)
	assert.Equal(t, 7, cfg.Query.CompletedDays)
	assert.Equal(t, "silent", cfg.Database.LogLevel)
	assert.Len(t, cfg.Import.Palette, 4)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/focus.db
log:
  level: debug
query:
  completed_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/focus.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 14, cfg.Query.CompletedDays)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644))

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvDBPath, "/data/focus.db")
	t.Setenv(EnvCompletedDays, "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/data/focus.db", cfg.Database.Path)
	assert.Equal(t, 30, cfg.Query.CompletedDays)
}

func TestLoad_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv(EnvCompletedDays, "many")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, EnvCompletedDays)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty db path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"bad sql level", func(c *Config) { c.Database.LogLevel = "chatty" }, "database.log_level"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad schedule", func(c *Config) { c.Rollover.Schedule = "every day" }, "rollover.schedule"},
		{"zero days", func(c *Config) { c.Query.CompletedDays = 0 }, "query.completed_days"},
		{"no palette", func(c *Config) { c.Import.Palette = nil }, "import.palette"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Rollover.Schedule = "0 6 * * 1-5"

	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/ada")
	assert.Equal(t, "/home/ada/.focuslens/x.db", expandHome("~/.focuslens/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
