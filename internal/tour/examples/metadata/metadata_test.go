package metadata

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/testutil"
	"github.com/leapstack-labs/ormtour/internal/tour"
)

func TestReflectDeclaredTable(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&UserAccount{}))

	cols, err := ReflectColumns(db, "user_accounts")
	require.NoError(t, err)

	byName := make(map[string]ColumnInfo, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "id")
	require.Contains(t, byName, "name")
	require.Contains(t, byName, "full_name")
	assert.True(t, byName["id"].PrimaryKey)
}

func TestReflectForeignTable(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.Exec("CREATE TABLE legacy_points (x integer, y integer)").Error)

	cols, err := ReflectColumns(db, "legacy_points")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "x", cols[0].Name)
	assert.Equal(t, "y", cols[1].Name)
}

func TestReflectMissingTable(t *testing.T) {
	db := testutil.OpenDB(t)
	_, err := ReflectColumns(db, "no_such_table")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	db := testutil.OpenDB(t)

	var out bytes.Buffer
	tc := &tour.Context{DB: db, Out: &out, Logger: testutil.NewTestLogger(t)}
	require.NoError(t, Run(context.Background(), tc))

	assert.Contains(t, out.String(), "user_accounts")
	assert.Contains(t, out.String(), "HasTable(legacy_points) = false")
}
