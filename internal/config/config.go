// Package config handles reading and writing ~/.focuslens/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".focuslens"
	configFile = "config.yaml"
	dbFile     = "focuslens.db"
)

// Environment variables applied on top of the file
const (
	EnvDBPath           = "FOCUSLENS_DB_PATH"
	EnvLogLevel         = "FOCUSLENS_LOG_LEVEL"
	EnvLogFormat        = "FOCUSLENS_LOG_FORMAT"
	EnvRolloverSchedule = "FOCUSLENS_ROLLOVER_SCHEDULE"
	EnvCompletedDays    = "FOCUSLENS_COMPLETED_DAYS"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Rollover RolloverConfig `yaml:"rollover"`
	Query    QueryConfig    `yaml:"query"`
	Import   ImportConfig   `yaml:"import"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	LogLevel string `yaml:"log_level"` // silent | error | warn | info
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// RolloverConfig holds the daemon schedule.
type RolloverConfig struct {
	Schedule string `yaml:"schedule"` // standard 5-field cron expression
}

// QueryConfig holds list defaults.
type QueryConfig struct {
	CompletedDays int `yaml:"completed_days"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	Palette []string `yaml:"palette"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:     filepath.Join(homeDir(), configDir, dbFile),
			LogLevel: "silent",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Rollover: RolloverConfig{
			Schedule: "5 0 * * *",
		},
		Query: QueryConfig{
			CompletedDays: 7,
		},
		Import: ImportConfig{
			Palette: []string{"#FF9B42", "#7CD8FF", "#9BE7B3", "#FFE8A3"},
		},
	}
}

// DefaultPath returns ~/.focuslens/config.yaml.
func DefaultPath() string {
	return filepath.Join(homeDir(), configDir, configFile)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads the config at path over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvRolloverSchedule); ok && v != "" {
		c.Rollover.Schedule = v
	}
	if v, ok := lookup(EnvCompletedDays); ok && v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvCompletedDays, v)
		}
		c.Query.CompletedDays = days
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	switch strings.ToLower(c.Database.LogLevel) {
	case "", "silent", "error", "warn", "info":
	default:
		errs = append(errs, fmt.Errorf("database.log_level: unknown level %q", c.Database.LogLevel))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if _, err := cron.ParseStandard(c.Rollover.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("rollover.schedule: %w", err))
	}
	if c.Query.CompletedDays <= 0 {
		errs = append(errs, fmt.Errorf("query.completed_days must be positive, got %d", c.Query.CompletedDays))
	}
	if len(c.Import.Palette) == 0 {
		errs = append(errs, errors.New("import.palette must list at least one color"))
	}

	return errors.Join(errs...)
}

// Write saves cfg to path, creating the parent directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
