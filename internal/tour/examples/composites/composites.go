// Package composites maps value objects onto groups of columns: an
// embedded Point spans two columns per use, composites nest, and
// comparisons against a composite expand to its columns.
package composites

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Point is a plain value type; mapped models embed it so each use
// contributes an x and a y column under its own prefix.
type Point struct {
	X int
	Y int
}

func (p Point) String() string { return fmt.Sprintf("Point(x=%d, y=%d)", p.X, p.Y) }

// Vertex spans four columns: start_x, start_y, end_x, end_y.
type Vertex struct {
	ID    uint  `gorm:"primaryKey"`
	Start Point `gorm:"embedded;embeddedPrefix:start_"`
	End   Point `gorm:"embedded;embeddedPrefix:end_"`
}

// Circle nests a composite inside a larger column group.
type Circle struct {
	ID     uint  `gorm:"primaryKey"`
	Center Point `gorm:"embedded;embeddedPrefix:center_"`
	Radius int
}

// StartAt compares the whole Start composite by expanding it to its
// columns.
func StartAt(p Point) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_x = ? AND start_y = ?", p.X, p.Y)
	}
}

func init() {
	tour.Register(tour.Example{
		Name:    "composites/point",
		Chapter: "composites",
		Title:   "Value objects spanning multiple columns",
		Run:     Run,
	})
}

// Run executes the composites walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Vertex{}, &Circle{}); err != nil {
		return err
	}

	tc.Section("one value type, four columns")
	v := Vertex{Start: Point{X: 3, Y: 4}, End: Point{X: 5, Y: 6}}
	if err := db.Create(&v).Error; err != nil {
		return err
	}
	tc.Printf("stored %v -> %v as start_x, start_y, end_x, end_y\n", v.Start, v.End)

	tc.Section("loading rebuilds the value objects")
	var loaded Vertex
	if err := db.First(&loaded, v.ID).Error; err != nil {
		return err
	}
	tc.Printf("loaded.Start = %v\n", loaded.Start)
	tc.Printf("values compare as wholes: %v\n", loaded.Start == Point{X: 3, Y: 4})

	tc.Section("compare against the composite")
	var hits []Vertex
	if err := db.Scopes(StartAt(Point{X: 3, Y: 4})).Find(&hits).Error; err != nil {
		return err
	}
	tc.Printf("%d vertex(es) start at (3,4)\n", len(hits))

	tc.Section("composites nest")
	c := Circle{Center: Point{X: 1, Y: 1}, Radius: 5}
	if err := db.Create(&c).Error; err != nil {
		return err
	}
	var radii []int
	if err := db.Model(&Circle{}).Where("center_x = ? AND center_y = ?", 1, 1).
		Pluck("radius", &radii).Error; err != nil {
		return err
	}
	tc.Printf("circle at %v has radius %v\n", c.Center, radii)
	return nil
}
