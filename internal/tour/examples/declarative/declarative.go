// Package declarative covers table configuration on mapped structs:
// explicit table names, column naming, key generation, and indexes
// declared alongside the fields they cover.
package declarative

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Account maps to a hand-picked table name with explicit column names.
type Account struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"column:login_name;size:30;uniqueIndex"`
	FullName string `gorm:"column:display_name"`
	Email    string `gorm:"index:idx_account_email"`
}

// TableName overrides the pluralized default.
func (Account) TableName() string { return "user_account" }

// APIKey uses an application-assigned UUID primary key instead of a
// database sequence.
type APIKey struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	AccountID uint      `gorm:"not null;index"`
	Label     string
}

// BeforeCreate assigns the key before the INSERT is built.
func (k *APIKey) BeforeCreate(*gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

func init() {
	tour.Register(tour.Example{
		Name:    "declarative/table-config",
		Chapter: "declarative",
		Title:   "Table names, column names, keys, and indexes",
		Run:     runTableConfig,
	})
}

func runTableConfig(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	tc.Section("explicit table and column names")
	if err := db.AutoMigrate(&Account{}, &APIKey{}); err != nil {
		return err
	}
	tc.Printf("Account maps to %q; Name maps to column login_name\n", Account{}.TableName())

	acct := Account{Name: "ed", FullName: "Ed Jones", Email: "ed@ormtour.dev"}
	if err := db.Create(&acct).Error; err != nil {
		return err
	}

	var loaded Account
	if err := db.Where("login_name = ?", "ed").First(&loaded).Error; err != nil {
		return err
	}
	tc.Printf("loaded %q by its mapped column\n", loaded.FullName)

	tc.Section("application-assigned UUID keys")
	key := APIKey{AccountID: acct.ID, Label: "ci"}
	if err := db.Create(&key).Error; err != nil {
		return err
	}
	tc.Printf("new key id: %s\n", key.ID)

	tc.Section("declared indexes")
	tc.Printf("HasIndex(Account, idx_account_email) = %v\n",
		db.Migrator().HasIndex(&Account{}, "idx_account_email"))
	return nil
}
