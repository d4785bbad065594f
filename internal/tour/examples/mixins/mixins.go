// Package mixins shows reusable column sets shared between models by
// struct embedding: the declarative equivalent of mixin classes.
package mixins

import (
	"context"
	"time"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Timestamps adds audit columns to any model that embeds it. The field
// names are recognized by the ORM and maintained automatically.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ownable adds an owner column with a shared index name prefix.
type Ownable struct {
	OwnerName string `gorm:"size:30;index"`
}

// Article embeds both mixins alongside its own columns.
type Article struct {
	ID    uint `gorm:"primaryKey"`
	Title string
	Timestamps
	Ownable
}

// Comment reuses the same mixins; each embedding model gets its own
// copies of the columns.
type Comment struct {
	ID   uint `gorm:"primaryKey"`
	Body string
	Timestamps
	Ownable
}

func init() {
	tour.Register(tour.Example{
		Name:    "mixins",
		Chapter: "mixins",
		Title:   "Reusable column sets by struct embedding",
		Run:     Run,
	})
}

// Run executes the mixins walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	tc.Section("two models sharing mixins")
	if err := db.AutoMigrate(&Article{}, &Comment{}); err != nil {
		return err
	}
	tc.Println("articles and comments both carry created_at, updated_at, owner_name")

	tc.Section("timestamps maintained automatically")
	art := Article{Title: "Mixins in practice", Ownable: Ownable{OwnerName: "ed"}}
	if err := db.Create(&art).Error; err != nil {
		return err
	}
	created := art.CreatedAt
	tc.Printf("created_at set on insert: %v\n", !created.IsZero())

	art.Title = "Mixins, revised"
	if err := db.Save(&art).Error; err != nil {
		return err
	}
	tc.Printf("updated_at advanced on save: %v\n", !art.UpdatedAt.Before(created))

	tc.Section("mixin columns are queryable per model")
	cmt := Comment{Body: "nice article", Ownable: Ownable{OwnerName: "sandy"}}
	if err := db.Create(&cmt).Error; err != nil {
		return err
	}

	var owners []string
	if err := db.Model(&Comment{}).Pluck("owner_name", &owners).Error; err != nil {
		return err
	}
	tc.Printf("comment owners: %v\n", owners)
	return nil
}
