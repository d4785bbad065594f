// Package loading compares relationship loading strategies: loading on
// demand, batched preloads, joined eager loads, and row-limited
// collection reads for large associations.
package loading

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Author has many Books; Book has many Reviews and belongs to Author.
type Author struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Books []Book
}

type Book struct {
	ID       uint `gorm:"primaryKey"`
	Title    string
	AuthorID uint
	Author   *Author
	Reviews  []Review
}

type Review struct {
	ID     uint `gorm:"primaryKey"`
	BookID uint
	Stars  int
	Body   string
}

func init() {
	tour.Register(tour.Example{
		Name:    "loading/strategies",
		Chapter: "loading",
		Title:   "Lazy, preload, joined, and limited collection loads",
		Run:     Run,
	})
}

// Seed inserts two authors with books and reviews.
func Seed(db *gorm.DB) error {
	if err := db.AutoMigrate(&Author{}, &Book{}, &Review{}); err != nil {
		return err
	}
	authors := []Author{
		{
			Name: "le guin",
			Books: []Book{
				{Title: "The Dispossessed", Reviews: []Review{{Stars: 5, Body: "a classic"}, {Stars: 4, Body: "dense"}}},
				{Title: "The Lathe of Heaven", Reviews: []Review{{Stars: 4, Body: "dreamlike"}}},
			},
		},
		{
			Name: "banks",
			Books: []Book{
				{Title: "The Player of Games"},
			},
		},
	}
	return db.Create(&authors).Error
}

// FirstPageOfReviews loads at most limit reviews for a book, newest
// first. Large collections are paged instead of loaded whole.
func FirstPageOfReviews(db *gorm.DB, bookID uint, limit int) ([]Review, error) {
	var reviews []Review
	err := db.Where("book_id = ?", bookID).Order("id DESC").Limit(limit).Find(&reviews).Error
	return reviews, err
}

// Run executes the loading walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := Seed(db); err != nil {
		return err
	}

	tc.Section("load on demand")
	var leguin Author
	if err := db.Where("name = ?", "le guin").First(&leguin).Error; err != nil {
		return err
	}
	tc.Printf("after First, Books is nil: %v\n", leguin.Books == nil)

	var books []Book
	if err := db.Model(&leguin).Association("Books").Find(&books); err != nil {
		return err
	}
	tc.Printf("explicit association load fetched %d books\n", len(books))

	tc.Section("preload: one extra query per association")
	var authors []Author
	if err := db.Preload("Books").Find(&authors).Error; err != nil {
		return err
	}
	for _, a := range authors {
		tc.Printf("%s wrote %d book(s)\n", a.Name, len(a.Books))
	}

	tc.Section("nested preload")
	var loaded Author
	if err := db.Preload("Books.Reviews").Where("name = ?", "le guin").First(&loaded).Error; err != nil {
		return err
	}
	for _, b := range loaded.Books {
		tc.Printf("%s has %d review(s)\n", b.Title, len(b.Reviews))
	}

	tc.Section("joined eager load for belongs-to")
	var book Book
	if err := db.Joins("Author").Where("books.title = ?", "The Player of Games").First(&book).Error; err != nil {
		return err
	}
	tc.Printf("one SELECT brought back %q by %s\n", book.Title, book.Author.Name)

	tc.Section("row-limited collection")
	first := loaded.Books[0]
	page, err := FirstPageOfReviews(db, first.ID, 1)
	if err != nil {
		return err
	}
	if len(page) != 1 {
		return fmt.Errorf("expected a single-review page, got %d", len(page))
	}
	tc.Printf("latest review of %q: %q\n", first.Title, page[0].Body)
	return nil
}
