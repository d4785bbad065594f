// Package validators guards attribute values in model hooks so invalid
// objects never reach the database.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// ErrInvalidEmail is returned when an email fails validation.
var ErrInvalidEmail = errors.New("failed simplified email validation")

// EmailAddress validates itself before every write.
type EmailAddress struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"not null"`
	MemberID *uint
}

// BeforeSave rejects writes with a malformed email. Covers both INSERT
// and UPDATE paths.
func (a *EmailAddress) BeforeSave(*gorm.DB) error {
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("%q: %w", a.Email, ErrInvalidEmail)
	}
	return nil
}

// Member validates its whole address collection before it is created,
// the collection-event analog of per-attribute validation.
type Member struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:30"`
	Addresses []EmailAddress
}

// BeforeCreate runs before the member and its nested addresses insert.
func (m *Member) BeforeCreate(*gorm.DB) error {
	for _, a := range m.Addresses {
		if !strings.Contains(a.Email, "@") {
			return fmt.Errorf("member %q: %q: %w", m.Name, a.Email, ErrInvalidEmail)
		}
	}
	return nil
}

func init() {
	tour.Register(tour.Example{
		Name:    "validators",
		Chapter: "validators",
		Title:   "Attribute validation in model hooks",
		Run:     Run,
	})
}

// Run executes the validators walkthrough.
func Run(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Member{}, &EmailAddress{}); err != nil {
		return err
	}

	tc.Section("valid writes pass through")
	ok := Member{Name: "ed", Addresses: []EmailAddress{{Email: "ed@ormtour.dev"}}}
	if err := db.Create(&ok).Error; err != nil {
		return err
	}
	tc.Println("member with a valid address inserted")

	tc.Section("invalid attribute rejected before INSERT")
	bad := EmailAddress{Email: "not-an-email"}
	err := db.Create(&bad).Error
	if errors.Is(err, ErrInvalidEmail) {
		tc.Printf("rejected: %v\n", err)
	} else if err != nil {
		return err
	}

	tc.Section("collection validation covers nested inserts")
	badMember := Member{Name: "fake", Addresses: []EmailAddress{{Email: "bogus"}}}
	err = db.Create(&badMember).Error
	if errors.Is(err, ErrInvalidEmail) {
		tc.Printf("rejected: %v\n", err)
	} else if err != nil {
		return err
	}

	tc.Section("updates revalidate too")
	var addr EmailAddress
	if err := db.First(&addr).Error; err != nil {
		return err
	}
	addr.Email = "broken"
	err = db.Save(&addr).Error
	if errors.Is(err, ErrInvalidEmail) {
		tc.Printf("rejected on update: %v\n", err)
	} else if err != nil {
		return err
	}

	var members int64
	if err := db.Model(&Member{}).Count(&members).Error; err != nil {
		return err
	}
	tc.Printf("the database holds %d member(s); nothing invalid landed\n", members)
	return nil
}
