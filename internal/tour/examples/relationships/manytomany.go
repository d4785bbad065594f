package relationships

import (
	"context"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Post and Tag are linked through the post_tags join table, which the
// ORM maintains on its own.
type Post struct {
	ID    uint `gorm:"primaryKey"`
	Title string
	Tags  []Tag `gorm:"many2many:post_tags"`
}

// Tag is the other side of the association.
type Tag struct {
	ID    uint   `gorm:"primaryKey"`
	Label string `gorm:"uniqueIndex"`
	Posts []Post `gorm:"many2many:post_tags"`
}

func init() {
	tour.Register(tour.Example{
		Name:    "relationships/many-to-many",
		Chapter: "relationships",
		Title:   "Many-to-many through an implicit join table",
		Run:     runManyToMany,
	})
}

func runManyToMany(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Post{}, &Tag{}); err != nil {
		return err
	}

	tc.Section("insert linked rows")
	tags := []Tag{{Label: "go"}, {Label: "databases"}}
	if err := db.Create(&tags).Error; err != nil {
		return err
	}
	posts := []Post{
		{Title: "Mapping structs to rows", Tags: []Tag{tags[0], tags[1]}},
		{Title: "Join tables explained", Tags: []Tag{tags[1]}},
	}
	if err := db.Create(&posts).Error; err != nil {
		return err
	}
	tc.Println("2 posts, 2 tags, 3 join rows")

	tc.Section("navigate both directions")
	var post Post
	if err := db.Preload("Tags").Where("title LIKE ?", "Mapping%").First(&post).Error; err != nil {
		return err
	}
	for _, tag := range post.Tags {
		tc.Printf("post %q tagged %q\n", post.Title, tag.Label)
	}

	var tag Tag
	if err := db.Preload("Posts").Where("label = ?", "databases").First(&tag).Error; err != nil {
		return err
	}
	tc.Printf("tag %q appears on %d posts\n", tag.Label, len(tag.Posts))

	tc.Section("unlink without deleting")
	if err := db.Model(&post).Association("Tags").Delete(&post.Tags[0]); err != nil {
		return err
	}
	count := db.Model(&post).Association("Tags").Count()
	tc.Printf("post now has %d tag(s); the tag row itself survives\n", count)
	return nil
}
