package inheritance

import (
	"context"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// JoinedEmployee is the base table of the joined hierarchy: common
// columns live here, one row per employee of any kind.
type JoinedEmployee struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50"`
	Kind string `gorm:"size:50;not null"`
}

// EngineerDetail extends JoinedEmployee: its primary key is also the
// foreign key to the base row.
type EngineerDetail struct {
	JoinedEmployeeID uint   `gorm:"primaryKey;autoIncrement:false"`
	EngineerName     string `gorm:"size:30"`

	JoinedEmployee *JoinedEmployee
}

// ManagerDetail is the other subtype table.
type ManagerDetail struct {
	JoinedEmployeeID uint   `gorm:"primaryKey;autoIncrement:false"`
	ManagerName      string `gorm:"size:30"`

	JoinedEmployee *JoinedEmployee
}

// Engineer is the joined view of a base row plus its subtype row.
type Engineer struct {
	ID           uint
	Name         string
	EngineerName string
}

// CreateEngineer inserts the base row and the subtype row in one
// transaction so a failure leaves neither behind.
func CreateEngineer(db *gorm.DB, name, engineerName string) (Engineer, error) {
	var out Engineer
	err := db.Transaction(func(tx *gorm.DB) error {
		base := JoinedEmployee{Name: name, Kind: KindEngineer}
		if err := tx.Create(&base).Error; err != nil {
			return err
		}
		detail := EngineerDetail{JoinedEmployeeID: base.ID, EngineerName: engineerName}
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
		out = Engineer{ID: base.ID, Name: base.Name, EngineerName: detail.EngineerName}
		return nil
	})
	return out, err
}

// FetchEngineers loads the joined form of every engineer.
func FetchEngineers(db *gorm.DB) ([]Engineer, error) {
	var out []Engineer
	err := db.Table("joined_employees").
		Select("joined_employees.id, joined_employees.name, engineer_details.engineer_name").
		Joins("JOIN engineer_details ON engineer_details.joined_employee_id = joined_employees.id").
		Order("joined_employees.id").
		Scan(&out).Error
	return out, err
}

func init() {
	tour.Register(tour.Example{
		Name:    "inheritance/joined-table",
		Chapter: "inheritance",
		Title:   "Base table plus subtype tables sharing the key",
		Run:     runJoinedTable,
	})
}

func runJoinedTable(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&JoinedEmployee{}, &EngineerDetail{}, &ManagerDetail{}); err != nil {
		return err
	}

	tc.Section("each subtype spans two rows")
	if _, err := CreateEngineer(db, "spongebob", "fry cook systems"); err != nil {
		return err
	}
	if _, err := CreateEngineer(db, "sandy", "dome engineering"); err != nil {
		return err
	}
	tc.Println("2 base rows, 2 engineer detail rows, keys shared")

	tc.Section("load the joined form")
	engineers, err := FetchEngineers(db)
	if err != nil {
		return err
	}
	for _, e := range engineers {
		tc.Printf("engineer %s works on %q\n", e.Name, e.EngineerName)
	}

	tc.Section("the base table alone sees everyone")
	var base []JoinedEmployee
	if err := db.Order("id").Find(&base).Error; err != nil {
		return err
	}
	for _, b := range base {
		tc.Printf("%-12s kind=%s\n", b.Name, b.Kind)
	}
	return nil
}
