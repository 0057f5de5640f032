// Package config defines service configuration and its loading hooks.
//
// Conventions:
//   - New() returns defaults; Load layers a YAML file and the environment on top.
//   - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Supported entity store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the entity store: memory, sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver specific data source, e.g. a sqlite file path
	// or a postgres connection string. Ignored by the memory driver.
	DBDSN string `koanf:"db_dsn"`

	// SeasonWeeks is the number of episodes aggregated into season totals.
	SeasonWeeks int `koanf:"season_weeks"`

	// RecalcSchedule is a cron spec (with seconds) for periodic season rebuilds.
	// Empty disables the scheduler.
	RecalcSchedule string `koanf:"recalc_schedule"`

	// IdempotencySize bounds the remembered Idempotency-Key headers.
	IdempotencySize int `koanf:"idempotency_size"`

	// CORSOrigins is a comma separated allow-list for browser clients.
	CORSOrigins string `koanf:"cors_origins"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		DBDriver:        DriverMemory,
		SeasonWeeks:     10,
		IdempotencySize: 10_000,
		CORSOrigins:     "*",
	}
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SeasonWeeks < 1:
		return fmt.Errorf("%w: season_weeks must be positive, got %d", ErrInvalidConfig, c.SeasonWeeks)
	case c.IdempotencySize < 0:
		return fmt.Errorf("%w: idempotency_size must not be negative", ErrInvalidConfig)
	}
	switch c.DBDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("%w: db_dsn is required for driver %q", ErrInvalidConfig, c.DBDriver)
		}
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	return nil
}
