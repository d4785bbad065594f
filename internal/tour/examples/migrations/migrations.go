// Package migrations runs versioned SQL migrations with goose against
// the tour database, then maps the migrated tables with the ORM. This
// is the workflow for schemas owned by migration files rather than by
// model declarations.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Ledger maps the table created by the migration files; the struct
// declares no schema of its own beyond the table name.
type Ledger struct {
	ID     uint `gorm:"primaryKey"`
	Entry  string
	Amount int
}

func (Ledger) TableName() string { return "ledger" }

// Up applies all pending migrations to the gorm handle's underlying
// connection.
func Up(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func Version(db *gorm.DB) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(sqlDB)
}

func init() {
	tour.Register(tour.Example{
		Name:    "migrations/goose",
		Chapter: "migrations",
		Title:   "Versioned SQL migrations feeding mapped models",
		Run:     Run,
	})
}

// Run executes the migrations walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if db.Dialector.Name() != "sqlite" {
		tc.Println("this walkthrough ships sqlite migration files; skipping on other dialects")
		return nil
	}

	tc.Section("apply versioned migrations")
	if err := Up(db); err != nil {
		return err
	}
	version, err := Version(db)
	if err != nil {
		return err
	}
	tc.Printf("database is at migration version %d\n", version)

	tc.Section("the ORM maps the migrated table")
	entries := []Ledger{
		{Entry: "opening balance", Amount: 100},
		{Entry: "kelp fries", Amount: -15},
	}
	if err := db.Create(&entries).Error; err != nil {
		return err
	}

	var total int
	row := db.Model(&Ledger{}).Select("SUM(amount)").Row()
	if err := row.Scan(&total); err != nil {
		return err
	}
	tc.Printf("ledger total after %d entries: %d\n", len(entries), total)
	return nil
}
