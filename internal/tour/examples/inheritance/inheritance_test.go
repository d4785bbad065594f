package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/testutil"
)

func TestSingleTableScopes(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Company{}, &Employee{}))

	co := Company{
		Name: "Krusty Krab",
		Employees: []Employee{
			NewManager("squidward", "front of house"),
			NewEngineer("spongebob", "fry cook systems"),
			{Name: "patrick", Kind: KindEmployee},
		},
	}
	require.NoError(t, db.Create(&co).Error)

	var engineers []Employee
	require.NoError(t, db.Scopes(Engineers).Find(&engineers).Error)
	require.Len(t, engineers, 1)
	assert.Equal(t, "spongebob", engineers[0].Name)
	require.NotNil(t, engineers[0].EngineerInfo)

	var managers []Employee
	require.NoError(t, db.Scopes(Managers).Find(&managers).Error)
	require.Len(t, managers, 1)
	assert.Nil(t, managers[0].EngineerInfo)

	var all []Employee
	require.NoError(t, db.Find(&all).Error)
	assert.Len(t, all, 3)
}

func TestJoinedTableCreateAndFetch(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&JoinedEmployee{}, &EngineerDetail{}, &ManagerDetail{}))

	eng, err := CreateEngineer(db, "sandy", "dome engineering")
	require.NoError(t, err)
	assert.NotZero(t, eng.ID)

	engineers, err := FetchEngineers(db)
	require.NoError(t, err)
	require.Len(t, engineers, 1)
	assert.Equal(t, "sandy", engineers[0].Name)
	assert.Equal(t, "dome engineering", engineers[0].EngineerName)

	// Base and detail rows share the key.
	var detail EngineerDetail
	require.NoError(t, db.First(&detail, "joined_employee_id = ?", eng.ID).Error)
}

func TestJoinedTableCreateIsAtomic(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&JoinedEmployee{}, &ManagerDetail{}))
	// engineer_details missing: the second insert fails, the base row
	// must roll back.
	_, err := CreateEngineer(db, "sandy", "dome engineering")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&JoinedEmployee{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConcreteTableUnionView(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&ConcreteManager{}, &ConcreteEngineer{}))

	require.NoError(t, db.Create(&ConcreteManager{Name: "squidward", ManagerData: "front"}).Error)
	require.NoError(t, db.Create(&ConcreteEngineer{Name: "sandy", EngineerInfo: "domes"}).Error)
	require.NoError(t, CreatePolymorphicView(db))

	rows, err := FetchAllEmployees(db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "engineer", rows[0].Kind)
	assert.Equal(t, "sandy", rows[0].Name)
	assert.Equal(t, "manager", rows[1].Kind)
	assert.Equal(t, "front", rows[1].Payload)
}
