// Package hybrids exposes SQL expressions as model attributes: plain
// Go accessors, database-generated columns, query-time expressions,
// and correlated subquery columns.
package hybrids

import (
	"context"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Interval stores two endpoints. Length is computed by the database as
// a generated column; the ORM treats it as read-only.
type Interval struct {
	ID         uint `gorm:"primaryKey"`
	StartPoint int
	EndPoint   int
	Length     int `gorm:"->;type:INTEGER GENERATED ALWAYS AS (end_point - start_point) VIRTUAL"`
}

// Contains is the plain-accessor form of the same idea: computed in Go
// on loaded values, invisible to SQL.
func (i Interval) Contains(point int) bool {
	return i.StartPoint <= point && point < i.EndPoint
}

// intervalStats carries a query-time expression alongside the mapped
// columns.
type intervalStats struct {
	Interval
	Midpoint float64 `gorm:"->"`
}

// Shop and Item feed the correlated-subquery walkthrough.
type Shop struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Items []Item
}

type Item struct {
	ID     uint `gorm:"primaryKey"`
	ShopID uint
	SKU    string
}

// shopWithCount attaches a per-row subquery result.
type shopWithCount struct {
	Shop
	ItemCount int `gorm:"->"`
}

// ShopsWithItemCounts selects shops with a correlated COUNT per row.
func ShopsWithItemCounts(db *gorm.DB) ([]shopWithCount, error) {
	var out []shopWithCount
	err := db.Model(&Shop{}).
		Select("shops.*, (SELECT COUNT(*) FROM items WHERE items.shop_id = shops.id) AS item_count").
		Order("shops.id").
		Scan(&out).Error
	return out, err
}

func init() {
	tour.Register(tour.Example{
		Name:    "hybrids/sql-expressions",
		Chapter: "hybrids",
		Title:   "SQL expressions as mapped attributes",
		Run:     Run,
	})
}

// Run executes the hybrids walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Interval{}, &Shop{}, &Item{}); err != nil {
		return err
	}

	tc.Section("database-generated column")
	ivals := []Interval{
		{StartPoint: 1, EndPoint: 5},
		{StartPoint: 10, EndPoint: 12},
	}
	if err := db.Create(&ivals).Error; err != nil {
		return err
	}

	var loaded []Interval
	if err := db.Order("id").Find(&loaded).Error; err != nil {
		return err
	}
	for _, iv := range loaded {
		tc.Printf("[%d, %d) has length %d\n", iv.StartPoint, iv.EndPoint, iv.Length)
	}

	tc.Section("expressions filter like any column")
	var long []Interval
	if err := db.Where("length > ?", 2).Find(&long).Error; err != nil {
		return err
	}
	tc.Printf("%d interval(s) longer than 2\n", len(long))

	tc.Section("plain accessor computed in Go")
	tc.Printf("[1, 5) contains 3: %v\n", loaded[0].Contains(3))

	tc.Section("query-time expression")
	var stats []intervalStats
	err := db.Model(&Interval{}).
		Select("*, (start_point + end_point) / 2.0 AS midpoint").
		Order("id").
		Scan(&stats).Error
	if err != nil {
		return err
	}
	for _, s := range stats {
		tc.Printf("[%d, %d) midpoint %.1f\n", s.StartPoint, s.EndPoint, s.Midpoint)
	}

	tc.Section("correlated subquery column")
	shops := []Shop{
		{Name: "boatique", Items: []Item{{SKU: "anchor"}, {SKU: "sail"}}},
		{Name: "empty mart"},
	}
	if err := db.Create(&shops).Error; err != nil {
		return err
	}
	counted, err := ShopsWithItemCounts(db)
	if err != nil {
		return err
	}
	for _, s := range counted {
		tc.Printf("%s stocks %d item(s)\n", s.Name, s.ItemCount)
	}
	return nil
}
