package sessions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/testutil"
)

func seedPeople(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Person{}))
	require.NoError(t, db.Create(&[]Person{
		{Name: "ed", FullName: "Ed Jones", Nickname: "edsnickname"},
		{Name: "wendy", FullName: "Wendy Williams"},
	}).Error)
	return db
}

func TestRollbackDiscardsAllWork(t *testing.T) {
	db := seedPeople(t)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Model(&Person{}).Where("name = ?", "ed").Update("name", "Edwardo").Error)
	require.NoError(t, tx.Create(&Person{Name: "fakeuser"}).Error)
	require.NoError(t, tx.Rollback().Error)

	var ed Person
	require.NoError(t, db.Where("name = ?", "ed").First(&ed).Error)
	var fakes int64
	require.NoError(t, db.Model(&Person{}).Where("name = ?", "fakeuser").Count(&fakes).Error)
	assert.Zero(t, fakes)
}

func TestNestedTransactionSavepoint(t *testing.T) {
	db := seedPeople(t)

	err := db.Transaction(func(outer *gorm.DB) error {
		if err := outer.Create(&Person{Name: "kept"}).Error; err != nil {
			return err
		}
		_ = outer.Transaction(func(inner *gorm.DB) error {
			if err := inner.Create(&Person{Name: "doomed"}).Error; err != nil {
				return err
			}
			return errors.New("abort inner work")
		})
		return nil
	})
	require.NoError(t, err)

	var kept, doomed int64
	require.NoError(t, db.Model(&Person{}).Where("name = ?", "kept").Count(&kept).Error)
	require.NoError(t, db.Model(&Person{}).Where("name = ?", "doomed").Count(&doomed).Error)
	assert.Equal(t, int64(1), kept)
	assert.Zero(t, doomed)
}

func TestFirstOrCreate(t *testing.T) {
	db := seedPeople(t)

	var mary Person
	res := db.Where(Person{Name: "mary"}).Attrs(Person{FullName: "Mary Contrary"}).FirstOrCreate(&mary)
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, "Mary Contrary", mary.FullName)

	var again Person
	res = db.Where(Person{Name: "mary"}).FirstOrCreate(&again)
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)
	assert.Equal(t, mary.ID, again.ID)
}

func TestNotFoundTaxonomy(t *testing.T) {
	db := seedPeople(t)

	var missing Person
	err := db.Where("name = ?", "nobody").First(&missing).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var zero []Person
	require.NoError(t, db.Where("name = ?", "nobody").Find(&zero).Error)
	assert.Empty(t, zero)

	err = db.Delete(&Person{}).Error
	assert.ErrorIs(t, err, gorm.ErrMissingWhereClause)
}

func TestOperators(t *testing.T) {
	db := seedPeople(t)

	var names []string
	require.NoError(t, db.Model(&Person{}).Where("name IN ?", []string{"ed", "wendy"}).
		Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"ed", "wendy"}, names)

	require.NoError(t, db.Model(&Person{}).Where("full_name LIKE ?", "%Jones%").
		Pluck("name", &names).Error)
	assert.Equal(t, []string{"ed"}, names)

	var page []Person
	require.NoError(t, db.Order("id").Offset(1).Limit(1).Find(&page).Error)
	require.Len(t, page, 1)
	assert.Equal(t, "wendy", page[0].Name)
}

func TestAliasedSelfJoin(t *testing.T) {
	db := seedPeople(t)

	type pair struct {
		A string
		B string
	}
	var pairs []pair
	err := db.Table("people AS p1").
		Select("p1.name AS a, p2.name AS b").
		Joins("JOIN people AS p2 ON p1.id < p2.id").
		Scan(&pairs).Error
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, pair{A: "ed", B: "wendy"}, pairs[0])
}
