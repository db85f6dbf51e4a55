// Package postgres persists job records to a PostgreSQL database.
package postgres

import (
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/platform/env"
	"go.trai.ch/zerr"
)

// Config holds the database connection settings.
type Config struct {
	URL             string
	PingTimeout     time.Duration
	QueryTimeout    time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a database is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// ConfigFromEnv reads the STAGE_DATABASE_* variables. An unset URL yields a disabled config.
func ConfigFromEnv() (Config, error) {
	pingTimeout, err := env.Duration("STAGE_DATABASE_PING_TIMEOUT", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	queryTimeout, err := env.Duration("STAGE_DATABASE_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxOpenConns, err := env.Int("STAGE_DATABASE_MAX_OPEN_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := env.Int("STAGE_DATABASE_MAX_IDLE_CONNS", 2)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := env.Duration("STAGE_DATABASE_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		URL:             env.String("STAGE_DATABASE_URL", ""),
		PingTimeout:     pingTimeout,
		QueryTimeout:    queryTimeout,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	}
	if !cfg.Enabled() {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings of an enabled config.
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_URL is required")
	case c.PingTimeout <= 0:
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_PING_TIMEOUT must be positive")
	case c.QueryTimeout <= 0:
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_QUERY_TIMEOUT must be positive")
	case c.MaxOpenConns < 1:
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_MAX_OPEN_CONNS must be >= 1")
	case c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns:
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_MAX_IDLE_CONNS must be between 0 and max open")
	case c.ConnMaxLifetime < 0:
		return zerr.Wrap(domain.ErrDatabaseConfig, "STAGE_DATABASE_CONN_MAX_LIFETIME must be >= 0")
	}
	return nil
}
