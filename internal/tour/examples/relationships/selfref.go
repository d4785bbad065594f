package relationships

import (
	"context"

	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// Node is a self-referential adjacency list: each row points at its
// parent in the same table, and the ORM resolves both directions.
type Node struct {
	ID       uint  `gorm:"primaryKey"`
	ParentID *uint `gorm:"index"`
	Data     string

	Parent   *Node  `gorm:"foreignKey:ParentID"`
	Children []Node `gorm:"foreignKey:ParentID"`
}

// Descendants walks the tree below a node breadth-first.
func Descendants(db *gorm.DB, rootID uint) ([]Node, error) {
	var out []Node
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var level []Node
		if err := db.Where("parent_id IN ?", frontier).Order("id").Find(&level).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, n := range level {
			frontier = append(frontier, n.ID)
		}
		out = append(out, level...)
	}
	return out, nil
}

func init() {
	tour.Register(tour.Example{
		Name:    "relationships/self-referential",
		Chapter: "relationships",
		Title:   "Adjacency lists in one table",
		Run:     runSelfReferential,
	})
}

func runSelfReferential(_ context.Context, tc *tour.Context) error {
	db := tc.DB

	if err := db.AutoMigrate(&Node{}); err != nil {
		return err
	}

	tc.Section("build a tree")
	root := Node{
		Data: "root",
		Children: []Node{
			{Data: "child1"},
			{Data: "child2", Children: []Node{{Data: "grandchild"}}},
		},
	}
	if err := db.Create(&root).Error; err != nil {
		return err
	}
	tc.Println("nested children were inserted with their parent ids filled in")

	tc.Section("navigate upward")
	var grandchild Node
	if err := db.Preload("Parent").Where("data = ?", "grandchild").First(&grandchild).Error; err != nil {
		return err
	}
	tc.Printf("grandchild's parent: %s\n", grandchild.Parent.Data)

	tc.Section("navigate downward")
	nodes, err := Descendants(db, root.ID)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		tc.Printf("descendant: %s\n", n.Data)
	}
	return nil
}
