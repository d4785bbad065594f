// Package metadata shows how table metadata moves between declared
// models and the live database: schema creation from declarations, and
// reflection of tables the ORM has never seen.
package metadata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// UserAccount is the declared side of the walkthrough.
type UserAccount struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:30"`
	FullName string
}

// EmailAddress declares a foreign key back to UserAccount.
type EmailAddress struct {
	ID            uint   `gorm:"primaryKey"`
	Email         string `gorm:"not null"`
	UserAccountID uint   `gorm:"not null"`
	UserAccount   UserAccount
}

func init() {
	tour.Register(tour.Example{
		Name:    "metadata",
		Chapter: "metadata",
		Title:   "Schema creation and table reflection",
		Run:     Run,
	})
}

// ColumnInfo is the reflected description of one column.
type ColumnInfo struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// ReflectColumns reads column metadata for a table from the live
// database, whether or not a model declares it.
func ReflectColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect %s: %w", table, err)
	}

	out := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		nullable, _ := ct.Nullable()
		pk, _ := ct.PrimaryKey()
		out = append(out, ColumnInfo{
			Name:       ct.Name(),
			Type:       ct.DatabaseTypeName(),
			Nullable:   nullable,
			PrimaryKey: pk,
		})
	}
	return out, nil
}

// Run executes the metadata walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB
	m := db.Migrator()

	tc.Section("emit CREATE from declarations")
	if err := db.AutoMigrate(&UserAccount{}, &EmailAddress{}); err != nil {
		return err
	}
	tables, err := m.GetTables()
	if err != nil {
		return err
	}
	tc.Printf("tables now in the database: %v\n", tables)

	tc.Section("inspect a declared table")
	cols, err := ReflectColumns(db, "user_accounts")
	if err != nil {
		return err
	}
	for _, c := range cols {
		tc.Printf("%-15s %-12s nullable=%-5v pk=%v\n", c.Name, c.Type, c.Nullable, c.PrimaryKey)
	}

	tc.Section("reflect a table created outside the ORM")
	if err := db.Exec("CREATE TABLE legacy_points (x integer, y integer)").Error; err != nil {
		return err
	}
	tc.Printf("HasTable(legacy_points) = %v\n", m.HasTable("legacy_points"))

	cols, err = ReflectColumns(db, "legacy_points")
	if err != nil {
		return err
	}
	for _, c := range cols {
		tc.Printf("%-15s %s\n", c.Name, c.Type)
	}

	tc.Section("drop and verify")
	if err := m.DropTable("legacy_points"); err != nil {
		return err
	}
	tc.Printf("HasTable(legacy_points) = %v\n", m.HasTable("legacy_points"))
	return nil
}
