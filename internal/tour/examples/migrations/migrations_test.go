package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/testutil"
)

func TestUpCreatesSchema(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Up(db))

	assert.True(t, db.Migrator().HasTable("ledger"))
	assert.True(t, db.Migrator().HasIndex(&Ledger{}, "idx_ledger_entry"))

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestUpIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Up(db))
	require.NoError(t, Up(db))

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestORMMapsMigratedTable(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Up(db))

	require.NoError(t, db.Create(&Ledger{Entry: "opening", Amount: 100}).Error)

	var loaded Ledger
	require.NoError(t, db.Where("entry = ?", "opening").First(&loaded).Error)
	assert.Equal(t, 100, loaded.Amount)
}
