// Package config defines troop-events configuration and its loading.
//
// Values are layered, lowest precedence first: built-in defaults, an optional
// YAML file, then TROOP_* environment variables (a .env file in the working
// directory is read into the environment first). Command-line flags are
// applied on top by the cli package.
package config

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/troop-events/internal/logger"
	"github.com/pfrederiksen/troop-events/internal/search"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Source is the signup sheet URL or local file path.
	Source string `koanf:"source"`

	// SourceFormat forces the sheet format (gviz, html, csv, xlsx).
	// Empty means infer from the source name.
	SourceFormat string `koanf:"source_format"`

	// DataDir holds catalog snapshots between runs.
	DataDir string `koanf:"data_dir"`

	// Addr configures the HTTP listen address for serve, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RefreshInterval is how often serve re-ingests the sheet. Zero disables
	// periodic refresh.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// FetchTimeout bounds a single HTTP request to the sheet source.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// FetchRetries is the number of retries after a failed fetch.
	FetchRetries int `koanf:"fetch_retries"`

	// NotifyWebhook receives one message per new event found by
	// `events --new --notify`.
	NotifyWebhook string `koanf:"notify_webhook"`

	// Timezone decides which calendar day counts as today. "Local" uses the
	// host timezone.
	Timezone string `koanf:"timezone"`

	// Search thresholds.
	SearchMinScore       float64 `koanf:"search_min_score"`
	SearchSubstringScore float64 `koanf:"search_substring_score"`
	SearchSubstringFloor float64 `koanf:"search_substring_floor"`
	SearchPartWeight     float64 `koanf:"search_part_weight"`
}

// New creates a Config populated with defaults.
func New() *Config {
	sc := search.DefaultConfig()
	return &Config{
		LogLevel:             "info",
		DataDir:              "~/.local/share/troop-events",
		Addr:                 ":8080",
		RefreshInterval:      5 * time.Minute,
		FetchTimeout:         30 * time.Second,
		FetchRetries:         3,
		Timezone:             "Local",
		SearchMinScore:       sc.MinScore,
		SearchSubstringScore: sc.SubstringScore,
		SearchSubstringFloor: sc.SubstringFloor,
		SearchPartWeight:     sc.PartWeight,
	}
}

// Search returns the search thresholds.
func (c *Config) Search() search.Config {
	return search.Config{
		MinScore:       c.SearchMinScore,
		SubstringScore: c.SearchSubstringScore,
		SubstringFloor: c.SearchSubstringFloor,
		PartWeight:     c.SearchPartWeight,
	}
}

// Location resolves Timezone. Unknown names fall back to time.Local; Validate
// rejects them before that can happen.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Format returns the configured sheet format, inferring it from Source when
// SourceFormat is empty.
func (c *Config) Format() (sheet.Format, error) {
	if c.SourceFormat == "" {
		return sheet.InferFormat(c.Source), nil
	}
	return sheet.ParseFormat(c.SourceFormat)
}

// Level returns the parsed log level.
func (c *Config) Level() logger.Level {
	l, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return l
}

// Validate checks field ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.SourceFormat != "" {
		if _, err := sheet.ParseFormat(c.SourceFormat); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%w: refresh_interval must not be negative", ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("%w: fetch_retries must not be negative", ErrInvalidConfig)
	}
	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: timezone: %v", ErrInvalidConfig, err)
		}
	}
	if err := c.Search().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
