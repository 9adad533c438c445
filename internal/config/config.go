// Package config provides YAML-based application configuration with an
// environment overlay for credentials.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
)

// Config is the top-level application configuration.
type Config struct {
	// SpreadsheetID is the Google spreadsheet to ingest.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// SheetName is the tab holding the event rows.
	SheetName string `yaml:"sheet_name"`

	// APIKey authenticates against the Sheets API. Prefer the
	// SHEETS_API_KEY environment variable over committing it here.
	APIKey string `yaml:"api_key"`

	// DataDir holds the sqlite database.
	DataDir string `yaml:"data_dir"`

	// ICSPath, when non-empty, enables the ICS feed export.
	ICSPath string `yaml:"ics_path"`

	// RefreshCron is the cron schedule for daemon-mode syncs.
	RefreshCron string `yaml:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		SheetName:   "Events",
		DataDir:     "./data",
		RefreshCron: "*/30 * * * *",
		LogLevel:    "info",
	}
}

// Normalize fills missing values with defaults so partially-filled configs
// still behave.
func (c *Config) Normalize() {
	if c.SheetName == "" {
		c.SheetName = "Events"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}

// Load reads configuration from path, layering a .env file and process
// environment on top. A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	conf := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logging.Warn("config file not found, using defaults", map[string]interface{}{
			"path": path,
		})
	case err != nil:
		return nil, errors.Wrap(errors.ErrConfig, "reading config file", err)
	default:
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, errors.Wrap(errors.ErrConfig, "parsing config file", err)
		}
	}

	applyEnv(conf)
	conf.Normalize()
	return conf, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(c *Config) {
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_API_KEY"); v != "" {
		c.APIKey = v
	}
}

// Validate checks the fields a sync run cannot do without.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return errors.New(errors.ErrConfig, "spreadsheet_id is required")
	}
	if c.APIKey == "" {
		return errors.New(errors.ErrConfig, "api_key is required (set SHEETS_API_KEY)")
	}
	return nil
}

// Level maps the configured log level onto the logger's type.
func (c *Config) Level() logging.LogLevel {
	switch c.LogLevel {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
