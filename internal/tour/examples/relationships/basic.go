// Package relationships covers the association patterns between mapped
// models: belongs-to, has-one, has-many, many-to-many, explicit
// association objects, and self-referential trees.
package relationships

import (
	"context"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Parent has many Children and exactly one ProfileCard.
type Parent struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Children []Child
	Profile  ProfileCard
}

// Child belongs to a Parent through ParentID.
type Child struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	ParentID uint
	Parent   *Parent
}

// ProfileCard is a has-one: its foreign key is unique.
type ProfileCard struct {
	ID       uint `gorm:"primaryKey"`
	Bio      string
	ParentID uint `gorm:"uniqueIndex"`
}

func init() {
	tour.Register(tour.Example{
		Name:    "relationships/basic",
		Chapter: "relationships",
		Title:   "Belongs-to, has-one, and has-many",
		Run:     runBasic,
	})
}

func runBasic(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Parent{}, &Child{}, &ProfileCard{}); err != nil {
		return err
	}

	tc.Section("insert an object graph")
	p := Parent{
		Name:     "alice",
		Children: []Child{{Name: "bob"}, {Name: "carol"}},
		Profile:  ProfileCard{Bio: "keeps two children in line"},
	}
	if err := db.Create(&p).Error; err != nil {
		return err
	}
	tc.Printf("parent %d created with %d children and a profile\n", p.ID, len(p.Children))

	tc.Section("has-many from the parent side")
	var loaded Parent
	if err := db.Preload("Children").Preload("Profile").First(&loaded, p.ID).Error; err != nil {
		return err
	}
	for _, c := range loaded.Children {
		tc.Printf("child: %s (parent_id=%d)\n", c.Name, c.ParentID)
	}
	tc.Printf("profile: %s\n", loaded.Profile.Bio)

	tc.Section("belongs-to from the child side")
	var bob Child
	if err := db.Preload("Parent").Where("name = ?", "bob").First(&bob).Error; err != nil {
		return err
	}
	tc.Printf("bob's parent is %s\n", bob.Parent.Name)
	return nil
}
