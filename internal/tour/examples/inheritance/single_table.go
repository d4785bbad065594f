// Package inheritance maps a type hierarchy onto relational tables
// three ways: a single table with a discriminator column, a joined
// base/subtype table pair, and concrete per-type tables unified by a
// polymorphic view.
package inheritance

import (
	"context"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Discriminator values for the single-table hierarchy.
const (
	KindEmployee = "employee"
	KindManager  = "manager"
	KindEngineer = "engineer"
)

// Company owns the hierarchy's association side.
type Company struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50"`
	Employees []Employee
}

// Employee holds every subtype in one table. Kind is the discriminator;
// subtype columns are nullable and only filled for their kind.
type Employee struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50"`
	Kind string `gorm:"size:50;index;not null"`

	// Subtype payloads share the table.
	ManagerData  *string
	EngineerInfo *string

	CompanyID *uint
	Company   *Company
}

// Managers scopes a query to the manager rows.
func Managers(db *gorm.DB) *gorm.DB { return db.Where("kind = ?", KindManager) }

// Engineers scopes a query to the engineer rows.
func Engineers(db *gorm.DB) *gorm.DB { return db.Where("kind = ?", KindEngineer) }

// NewManager builds a manager row.
func NewManager(name, managerData string) Employee {
	return Employee{Name: name, Kind: KindManager, ManagerData: &managerData}
}

// NewEngineer builds an engineer row.
func NewEngineer(name, engineerInfo string) Employee {
	return Employee{Name: name, Kind: KindEngineer, EngineerInfo: &engineerInfo}
}

func init() {
	tour.Register(tour.Example{
		Name:    "inheritance/single-table",
		Chapter: "inheritance",
		Title:   "One table, one discriminator column",
		Run:     runSingleTable,
	})
}

func runSingleTable(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Company{}, &Employee{}); err != nil {
		return err
	}

	tc.Section("insert mixed subtypes into one table")
	co := Company{
		Name: "Krusty Krab",
		Employees: []Employee{
			NewManager("squidward", "front of house"),
			NewEngineer("spongebob", "fry cook systems"),
			{Name: "patrick", Kind: KindEmployee},
		},
	}
	if err := db.Create(&co).Error; err != nil {
		return err
	}
	tc.Println("3 rows in employees, distinguished by kind")

	tc.Section("scope queries by discriminator")
	var engineers []Employee
	if err := db.Scopes(Engineers).Find(&engineers).Error; err != nil {
		return err
	}
	for _, e := range engineers {
		tc.Printf("engineer %s: %s\n", e.Name, *e.EngineerInfo)
	}

	tc.Section("the base query sees every subtype")
	var all []Employee
	if err := db.Where("company_id = ?", co.ID).Order("name").Find(&all).Error; err != nil {
		return err
	}
	for _, e := range all {
		tc.Printf("%-12s kind=%s\n", e.Name, e.Kind)
	}
	return nil
}
