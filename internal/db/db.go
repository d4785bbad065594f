// Package db opens tour databases. Dialects are registered by name so
// the CLI can select a backend from configuration; sqlite is the
// in-memory default used by all examples, postgres is available for
// running the tour against a real server.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	// Register the pgx stdlib driver so the postgres dialect can hand
	// gorm a plain *sql.DB.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config selects and configures a database backend.
type Config struct {
	// Dialect is the registered backend name: "sqlite" or "postgres".
	Dialect string `koanf:"dialect"`

	// DSN is the backend connection string. For sqlite an empty DSN
	// means a private in-memory database.
	DSN string `koanf:"dsn"`

	// Echo logs every SQL statement the ORM emits, in the manner of a
	// tutorial transcript.
	Echo bool `koanf:"echo"`
}

// Opener creates a gorm.DB from a Config.
type Opener func(cfg Config, logger *slog.Logger) (*gorm.DB, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Opener)
)

// Register adds a dialect opener to the registry. Called from init().
func Register(name string, opener Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = opener
}

// Dialects returns all registered dialect names (sorted).
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDialectError is returned when an unregistered dialect is
// requested.
type UnknownDialectError struct {
	Dialect   string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: check database.dialect in ormtour.yaml", e.Dialect, e.Available)
}

// Open creates a database handle for the configured dialect.
// A nil logger discards ORM log output.
func Open(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = "sqlite"
	}

	registryMu.RLock()
	opener, ok := registry[cfg.Dialect]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Dialect: cfg.Dialect, Available: Dialects()}
	}
	return opener(cfg, logger)
}

// Close releases the underlying connection pool of a gorm handle.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	return sqlDB.Close()
}

func init() {
	Register("sqlite", openSQLite)
	Register("postgres", openPostgres)
}

func openSQLite(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), gormConfig(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return gdb, nil
}

func openPostgres(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dialect requires a DSN")
	}

	// Go through pgx's database/sql adapter so the handle shares the
	// rest of the toolchain's pool settings.
	sqlDB, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(cfg, logger))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	return gdb, nil
}

func gormConfig(cfg Config, logger *slog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: newGormLogger(logger, cfg.Echo),
	}
}
