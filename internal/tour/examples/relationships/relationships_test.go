package relationships

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/testutil"
)

func TestHasManyAndBelongsTo(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Parent{}, &Child{}, &ProfileCard{}))

	p := Parent{
		Name:     "alice",
		Children: []Child{{Name: "bob"}, {Name: "carol"}},
		Profile:  ProfileCard{Bio: "bio"},
	}
	require.NoError(t, db.Create(&p).Error)

	var loaded Parent
	require.NoError(t, db.Preload("Children").Preload("Profile").First(&loaded, p.ID).Error)
	assert.Len(t, loaded.Children, 2)
	assert.Equal(t, "bio", loaded.Profile.Bio)

	var bob Child
	require.NoError(t, db.Preload("Parent").Where("name = ?", "bob").First(&bob).Error)
	require.NotNil(t, bob.Parent)
	assert.Equal(t, "alice", bob.Parent.Name)
}

func TestManyToManyRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Post{}, &Tag{}))

	shared := Tag{Label: "databases"}
	require.NoError(t, db.Create(&shared).Error)
	posts := []Post{
		{Title: "first", Tags: []Tag{{Label: "go"}, shared}},
		{Title: "second", Tags: []Tag{shared}},
	}
	require.NoError(t, db.Create(&posts).Error)

	var tag Tag
	require.NoError(t, db.Preload("Posts").Where("label = ?", "databases").First(&tag).Error)
	assert.Len(t, tag.Posts, 2)
}

func TestManyToManyUnlinkKeepsRows(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Post{}, &Tag{}))

	post := Post{Title: "first", Tags: []Tag{{Label: "go"}, {Label: "sql"}}}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Model(&post).Association("Tags").Delete(&post.Tags[0]))
	assert.Equal(t, int64(1), db.Model(&post).Association("Tags").Count())

	var tags int64
	require.NoError(t, db.Model(&Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(2), tags)
}

func TestAssociationObjectCarriesPayload(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Student{}, &Course{}, &Enrollment{}))

	ada := Student{Name: "ada"}
	course := Course{Title: "SQL 101"}
	require.NoError(t, db.Create(&ada).Error)
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&Enrollment{StudentID: ada.ID, CourseID: course.ID, Grade: "A"}).Error)

	var loaded Course
	require.NoError(t, db.Preload("Enrollments.Student").First(&loaded, course.ID).Error)
	require.Len(t, loaded.Enrollments, 1)
	assert.Equal(t, "A", loaded.Enrollments[0].Grade)
	assert.Equal(t, "ada", loaded.Enrollments[0].Student.Name)
}

func TestAssociationObjectCompositeKey(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Student{}, &Course{}, &Enrollment{}))

	require.NoError(t, db.Create(&Enrollment{StudentID: 1, CourseID: 1, Grade: "A"}).Error)
	err := db.Create(&Enrollment{StudentID: 1, CourseID: 1, Grade: "B"}).Error
	assert.Error(t, err)
}

func TestAdjacencyList(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&Node{}))

	root := Node{
		Data: "root",
		Children: []Node{
			{Data: "child1"},
			{Data: "child2", Children: []Node{{Data: "grandchild"}}},
		},
	}
	require.NoError(t, db.Create(&root).Error)

	var grandchild Node
	require.NoError(t, db.Preload("Parent").Where("data = ?", "grandchild").First(&grandchild).Error)
	require.NotNil(t, grandchild.Parent)
	assert.Equal(t, "child2", grandchild.Parent.Data)

	nodes, err := Descendants(db, root.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Data)
	}
	assert.Equal(t, []string{"child1", "child2", "grandchild"}, names)
}
