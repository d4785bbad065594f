package inheritance

import (
	"context"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// ConcreteManager is a complete, standalone table: no shared base row.
type ConcreteManager struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:50"`
	ManagerData string `gorm:"size:40"`
}

// ConcreteEngineer is the parallel standalone table.
type ConcreteEngineer struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:50"`
	EngineerInfo string `gorm:"size:40"`
}

// PolymorphicRow is one row of the union across the concrete tables.
type PolymorphicRow struct {
	ID      uint
	Name    string
	Kind    string
	Payload string
}

// pjoinView unifies the concrete tables the way a polymorphic union
// does: each branch tags its rows with the type that produced them.
const pjoinView = `
CREATE VIEW employees_pjoin AS
SELECT id, name, 'manager' AS kind, manager_data AS payload FROM concrete_managers
UNION ALL
SELECT id, name, 'engineer' AS kind, engineer_info AS payload FROM concrete_engineers
`

// CreatePolymorphicView (re)creates the union view over the concrete
// tables.
func CreatePolymorphicView(db *gorm.DB) error {
	if err := db.Exec("DROP VIEW IF EXISTS employees_pjoin").Error; err != nil {
		return err
	}
	return db.Exec(pjoinView).Error
}

// FetchAllEmployees queries the hierarchy through the union view.
func FetchAllEmployees(db *gorm.DB) ([]PolymorphicRow, error) {
	var out []PolymorphicRow
	err := db.Table("employees_pjoin").Order("kind, name").Scan(&out).Error
	return out, err
}

func init() {
	tour.Register(tour.Example{
		Name:    "inheritance/concrete-table",
		Chapter: "inheritance",
		Title:   "Per-type tables unified by a polymorphic view",
		Run:     runConcreteTable,
	})
}

func runConcreteTable(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&ConcreteManager{}, &ConcreteEngineer{}); err != nil {
		return err
	}

	tc.Section("each subtype owns a full table")
	managers := []ConcreteManager{{Name: "squidward", ManagerData: "front of house"}}
	engineers := []ConcreteEngineer{
		{Name: "spongebob", EngineerInfo: "fry cook systems"},
		{Name: "sandy", EngineerInfo: "dome engineering"},
	}
	if err := db.Create(&managers).Error; err != nil {
		return err
	}
	if err := db.Create(&engineers).Error; err != nil {
		return err
	}
	tc.Println("no shared rows: concrete_managers and concrete_engineers are independent")

	tc.Section("polymorphic queries go through a union view")
	if err := CreatePolymorphicView(db); err != nil {
		return err
	}
	rows, err := FetchAllEmployees(db)
	if err != nil {
		return err
	}
	for _, r := range rows {
		tc.Printf("%-10s %-12s %s\n", r.Kind, r.Name, r.Payload)
	}
	return nil
}
