// Package config provides configuration management for the ormtour CLI.
package config

import (
	"github.com/leapstack-labs/ormtour/internal/db"
)

// Config holds all CLI configuration options.
type Config struct {
	Database     db.Config `koanf:"database"`
	Verbose      bool      `koanf:"verbose"`
	OutputFormat string    `koanf:"output"`
}

// Default configuration values.
const (
	DefaultDialect = "sqlite"
	DefaultOutput  = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Database: db.Config{
			Dialect: DefaultDialect,
		},
		OutputFormat: DefaultOutput,
	}
}
