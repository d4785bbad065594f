package relationships

import (
	"context"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Enrollment is an explicit association object: a mapped join row with
// its own payload column. Use it instead of many2many when the link
// itself carries data.
type Enrollment struct {
	StudentID uint `gorm:"primaryKey;autoIncrement:false"`
	CourseID  uint `gorm:"primaryKey;autoIncrement:false"`
	Grade     string

	Student *Student
	Course  *Course
}

// Student reaches courses only through enrollments.
type Student struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Enrollments []Enrollment
}

// Course mirrors the other side.
type Course struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Enrollments []Enrollment
}

func init() {
	tour.Register(tour.Example{
		Name:    "relationships/association-object",
		Chapter: "relationships",
		Title:   "A join row mapped as its own model",
		Run:     runAssociationObject,
	})
}

func runAssociationObject(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Student{}, &Course{}, &Enrollment{}); err != nil {
		return err
	}

	tc.Section("link through the association object")
	ada := Student{Name: "ada"}
	alan := Student{Name: "alan"}
	sql101 := Course{Title: "SQL 101"}
	if err := db.Create(&ada).Error; err != nil {
		return err
	}
	if err := db.Create(&alan).Error; err != nil {
		return err
	}
	if err := db.Create(&sql101).Error; err != nil {
		return err
	}

	links := []Enrollment{
		{StudentID: ada.ID, CourseID: sql101.ID, Grade: "A"},
		{StudentID: alan.ID, CourseID: sql101.ID, Grade: "B+"},
	}
	if err := db.Create(&links).Error; err != nil {
		return err
	}
	tc.Println("each enrollment carries its own grade column")

	tc.Section("navigate with the payload")
	var course Course
	if err := db.Preload("Enrollments.Student").Where("title = ?", "SQL 101").First(&course).Error; err != nil {
		return err
	}
	for _, e := range course.Enrollments {
		tc.Printf("%s earned %s in %s\n", e.Student.Name, e.Grade, course.Title)
	}

	tc.Section("the composite key holds")
	dup := Enrollment{StudentID: ada.ID, CourseID: sql101.ID, Grade: "C"}
	if err := db.Create(&dup).Error; err != nil {
		tc.Printf("duplicate enrollment rejected: %v\n", err)
	}
	return nil
}
