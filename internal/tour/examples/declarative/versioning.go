package declarative

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// ErrStaleVersion is returned when an update loses the optimistic race.
var ErrStaleVersion = errors.New("row changed since it was read")

// Document carries a version counter that guards concurrent updates.
type Document struct {
	ID      uint `gorm:"primaryKey"`
	Body    string
	Version int `gorm:"not null;default:1"`
}

// SaveDocument writes doc.Body, but only if the row still carries the
// version the caller read. On success the counter advances.
func SaveDocument(db *gorm.DB, doc *Document) error {
	res := db.Model(&Document{}).
		Where("id = ? AND version = ?", doc.ID, doc.Version).
		Updates(map[string]any{"body": doc.Body, "version": doc.Version + 1})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("document %d: %w", doc.ID, ErrStaleVersion)
	}
	doc.Version++
	return nil
}

func init() {
	tour.Register(tour.Example{
		Name:    "declarative/versioning",
		Chapter: "declarative",
		Title:   "Version counters and optimistic concurrency",
		Run:     runVersioning,
	})
}

func runVersioning(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Document{}); err != nil {
		return err
	}

	tc.Section("version advances with each guarded save")
	doc := Document{Body: "first draft", Version: 1}
	if err := db.Create(&doc).Error; err != nil {
		return err
	}

	doc.Body = "second draft"
	if err := SaveDocument(db, &doc); err != nil {
		return err
	}
	tc.Printf("saved; version is now %d\n", doc.Version)

	tc.Section("a stale writer loses the race")
	stale := Document{ID: doc.ID, Body: "from an old read", Version: doc.Version - 1}
	err := SaveDocument(db, &stale)
	if errors.Is(err, ErrStaleVersion) {
		tc.Printf("stale save rejected: %v\n", err)
	} else if err != nil {
		return err
	}

	var current Document
	if err := db.First(&current, doc.ID).Error; err != nil {
		return err
	}
	tc.Printf("body is still %q at version %d\n", current.Body, current.Version)
	return nil
}
