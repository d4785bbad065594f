// Package quickstart walks the core ORM loop end to end: declare two
// mapped models, create their schema, insert object graphs, query with
// conditions and joins, update tracked fields, and delete.
package quickstart

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// User is mapped to the users table. The Addresses association is a
// has-many with a cascading delete constraint.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:30"`
	FullName string

	Addresses []Address `gorm:"constraint:OnDelete:CASCADE"`
}

func (u User) String() string {
	return fmt.Sprintf("User(id=%d, name=%q, fullname=%q)", u.ID, u.Name, u.FullName)
}

// Address is mapped to the addresses table. UserID is the foreign key
// back to users.
type Address struct {
	ID     uint   `gorm:"primaryKey"`
	Email  string `gorm:"not null"`
	UserID uint   `gorm:"not null"`
}

func (a Address) String() string {
	return fmt.Sprintf("Address(id=%d, email=%q)", a.ID, a.Email)
}

func init() {
	tour.Register(tour.Example{
		Name:    "quickstart",
		Chapter: "quickstart",
		Title:   "Declare models, insert, query, update, delete",
		Run:     Run,
	})
}

// Seed creates the schema and the three tour users.
func Seed(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Address{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	users := []User{
		{
			Name:     "spongebob",
			FullName: "Spongebob Squarepants",
			Addresses: []Address{
				{Email: "spongebob@ormtour.dev"},
			},
		},
		{
			Name:     "sandy",
			FullName: "Sandy Cheeks",
			Addresses: []Address{
				{Email: "sandy@ormtour.dev"},
				{Email: "sandy@squirrelpower.org"},
			},
		},
		{Name: "patrick", FullName: "Patrick Star"},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}
	return nil
}

// Run executes the quickstart walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	tc.Section("create schema and insert")
	if err := Seed(db); err != nil {
		return err
	}
	tc.Println("inserted 3 users; nested addresses were inserted with their parents")

	tc.Section("select with conditions")
	var users []User
	if err := db.Where("name IN ?", []string{"spongebob", "sandy"}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		tc.Println(u)
	}

	tc.Section("select through a join")
	var sandyAddress Address
	err := db.Joins("JOIN users ON users.id = addresses.user_id").
		Where("users.name = ?", "sandy").
		Where("addresses.email = ?", "sandy@ormtour.dev").
		First(&sandyAddress).Error
	if err != nil {
		return err
	}
	tc.Println(sandyAddress)

	tc.Section("update tracked objects")
	var patrick User
	if err := db.Where("name = ?", "patrick").First(&patrick).Error; err != nil {
		return err
	}
	if err := db.Model(&patrick).Association("Addresses").Append(&Address{Email: "patrickstar@ormtour.dev"}); err != nil {
		return err
	}
	sandyAddress.Email = "sandy_cheeks@ormtour.dev"
	if err := db.Save(&sandyAddress).Error; err != nil {
		return err
	}
	tc.Println("appended an address to patrick and renamed sandy's address")

	tc.Section("remove from a collection")
	var sandy User
	if err := db.Preload("Addresses").Where("name = ?", "sandy").First(&sandy).Error; err != nil {
		return err
	}
	// UserID is NOT NULL, so an address removed from the collection
	// cannot be orphaned in place; it is deleted outright.
	if err := db.Delete(&sandyAddress).Error; err != nil {
		return err
	}
	tc.Printf("sandy now has %d address(es)\n", db.Model(&sandy).Association("Addresses").Count())

	tc.Section("delete with cascade")
	if err := db.Select(clause.Associations).Delete(&patrick).Error; err != nil {
		return err
	}
	var remaining int64
	if err := db.Model(&User{}).Count(&remaining).Error; err != nil {
		return err
	}
	tc.Printf("deleted patrick and his addresses; %d users remain\n", remaining)

	return nil
}
