// Package sessions walks the unit-of-work surface: pending changes,
// commit and rollback boundaries, get-or-create, the not-found error
// taxonomy, and the query operators used day to day.
package sessions

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Person is the fixture model for session behavior.
type Person struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	FullName string
	Nickname string
}

func init() {
	tour.Register(tour.Example{
		Name:    "sessions/unit-of-work",
		Chapter: "sessions",
		Title:   "Pending changes, rollback, and the query surface",
		Run:     Run,
	})
}

// Run executes the sessions walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Person{}); err != nil {
		return err
	}

	tc.Section("insert and read back")
	ed := Person{Name: "ed", FullName: "Ed Jones", Nickname: "edsnickname"}
	if err := db.Create(&ed).Error; err != nil {
		return err
	}

	var our Person
	if err := db.Where("name = ?", "ed").First(&our).Error; err != nil {
		return err
	}
	tc.Printf("loaded person id=%d nickname=%q\n", our.ID, our.Nickname)

	tc.Section("save pending changes")
	our.Nickname = "eddie"
	if err := db.Save(&our).Error; err != nil {
		return err
	}
	tc.Println("UPDATE issued for the changed row")

	tc.Section("rollback discards work")
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Model(&Person{}).Where("name = ?", "ed").Update("name", "Edwardo").Error; err != nil {
		_ = tx.Rollback()
		return err
	}
	fake := Person{Name: "fakeuser", FullName: "Invalid", Nickname: "12345"}
	if err := tx.Create(&fake).Error; err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Rollback().Error; err != nil {
		return err
	}

	var after Person
	if err := db.Where("name = ?", "ed").First(&after).Error; err != nil {
		return err
	}
	var fakes int64
	if err := db.Model(&Person{}).Where("name = ?", "fakeuser").Count(&fakes).Error; err != nil {
		return err
	}
	tc.Printf("name is still %q; fake rows present: %d\n", after.Name, fakes)

	tc.Section("partial rollback with savepoints")
	err := db.Transaction(func(outer *gorm.DB) error {
		if err := outer.Create(&Person{Name: "wendy", FullName: "Wendy Williams"}).Error; err != nil {
			return err
		}
		// The inner failure rolls back to its savepoint only.
		_ = outer.Transaction(func(inner *gorm.DB) error {
			if err := inner.Create(&Person{Name: "doomed", FullName: "Never Lands"}).Error; err != nil {
				return err
			}
			return errors.New("abort inner work")
		})
		return nil
	})
	if err != nil {
		return err
	}
	var wendys, doomed int64
	db.Model(&Person{}).Where("name = ?", "wendy").Count(&wendys)
	db.Model(&Person{}).Where("name = ?", "doomed").Count(&doomed)
	tc.Printf("wendy committed (%d), doomed rolled back (%d)\n", wendys, doomed)

	tc.Section("get or create")
	var mary Person
	res := db.Where(Person{Name: "mary"}).Attrs(Person{FullName: "Mary Contrary"}).FirstOrCreate(&mary)
	if res.Error != nil {
		return res.Error
	}
	tc.Printf("first call created %d row(s)\n", res.RowsAffected)
	res = db.Where(Person{Name: "mary"}).FirstOrCreate(&mary)
	if res.Error != nil {
		return res.Error
	}
	tc.Printf("second call created %d row(s)\n", res.RowsAffected)

	tc.Section("the not-found taxonomy")
	var missing Person
	err = db.Where("name = ?", "nobody").First(&missing).Error
	tc.Printf("First on no rows: ErrRecordNotFound = %v\n", errors.Is(err, gorm.ErrRecordNotFound))
	var zero []Person
	if err := db.Where("name = ?", "nobody").Find(&zero).Error; err != nil {
		return err
	}
	tc.Printf("Find on no rows: no error, %d results\n", len(zero))
	err = db.Delete(&Person{}).Error
	tc.Printf("blanket delete refused: ErrMissingWhereClause = %v\n", errors.Is(err, gorm.ErrMissingWhereClause))

	tc.Section("everyday operators")
	if err := db.Create(&Person{Name: "fred", FullName: "Fred Flintstone"}).Error; err != nil {
		return err
	}
	var names []string
	if err := db.Model(&Person{}).Where("name IN ?", []string{"ed", "wendy", "mary"}).
		Order("name").Pluck("name", &names).Error; err != nil {
		return err
	}
	tc.Printf("IN filter: %v\n", names)

	if err := db.Model(&Person{}).Where("full_name LIKE ?", "%Jones%").
		Pluck("name", &names).Error; err != nil {
		return err
	}
	tc.Printf("LIKE filter: %v\n", names)

	var page []Person
	if err := db.Order("id").Offset(1).Limit(2).Find(&page).Error; err != nil {
		return err
	}
	tc.Printf("offset/limit window returned %d row(s)\n", len(page))

	tc.Section("aliased self-join")
	type pair struct {
		A string
		B string
	}
	var pairs []pair
	err = db.Table("people AS p1").
		Select("p1.name AS a, p2.name AS b").
		Joins("JOIN people AS p2 ON p1.id < p2.id").
		Order("p1.id, p2.id").
		Limit(3).
		Scan(&pairs).Error
	if err != nil {
		return err
	}
	for _, p := range pairs {
		tc.Printf("pair: %s / %s\n", p.A, p.B)
	}
	return nil
}
