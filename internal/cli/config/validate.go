package config

import (
	"fmt"

	"github.com/leapstack-labs/ormtour/internal/db"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	valid := false
	for _, d := range db.Dialects() {
		if c.Database.Dialect == d {
			valid = true
			break
		}
	}
	if !valid {
		return &db.UnknownDialectError{Dialect: c.Database.Dialect, Available: db.Dialects()}
	}

	switch c.OutputFormat {
	case "auto", "text", "markdown", "md", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text, markdown, or json)", c.OutputFormat)
	}

	if c.Database.Dialect == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("postgres dialect requires database.dsn\nHint: set ORMTOUR_DATABASE_DSN or database.dsn in ormtour.yaml")
	}
	return nil
}
