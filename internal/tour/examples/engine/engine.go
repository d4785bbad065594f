// Package engine works below the ORM: textual SQL, parameters, row
// scanning, and transaction boundaries on a bare database/sql handle.
// The standalone walkthrough runs on an in-memory DuckDB engine; the
// ORM-level equivalents run through the tour database.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	"gorm.io/gorm"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

func init() {
	tour.Register(tour.Example{
		Name:    "engine/transactions",
		Chapter: "engine",
		Title:   "Textual SQL, parameters, and transaction boundaries",
		Run:     Run,
	})
}

// Run executes the engine walkthrough.
func Run(ctx context.Context, tc *tour.Context) error {
	tc.Section("hello on a raw engine")
	duck, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer func() { _ = duck.Close() }()

	var greeting string
	if err := duck.QueryRowContext(ctx, "SELECT 'Hello World!'").Scan(&greeting); err != nil {
		return err
	}
	tc.Println(greeting)

	tc.Section("commit as you go")
	if err := CommitAsYouGo(ctx, duck); err != nil {
		return err
	}
	tc.Println("created points and inserted 2 rows inside an explicit transaction")

	tc.Section("begin once")
	if err := BeginOnce(ctx, duck, [][2]int{{6, 8}, {9, 10}}); err != nil {
		return err
	}
	tc.Println("inserted 2 more rows; the transaction committed on success")

	tc.Section("scanning rows")
	pts, err := FetchPoints(ctx, duck, 0)
	if err != nil {
		return err
	}
	for _, p := range pts {
		tc.Printf("x: %d \t y: %d\n", p.X, p.Y)
	}

	tc.Section("sending parameters")
	pts, err = FetchPoints(ctx, duck, 2)
	if err != nil {
		return err
	}
	tc.Printf("%d rows have y > 2\n", len(pts))

	tc.Section("textual SQL through the ORM")
	db := tc.DB
	if err := db.Exec("CREATE TABLE points (x integer, y integer)").Error; err != nil {
		return err
	}
	if err := db.Exec("INSERT INTO points (x, y) VALUES (?, ?), (?, ?)", 11, 12, 13, 14).Error; err != nil {
		return err
	}
	var orm []Point
	if err := db.Raw("SELECT x, y FROM points WHERE y > ? ORDER BY x, y", 6).Scan(&orm).Error; err != nil {
		return err
	}
	for _, p := range orm {
		tc.Printf("x: %d \t y: %d\n", p.X, p.Y)
	}

	tc.Section("ORM transaction rollback")
	return ormRollback(tc)
}

// Point mirrors the two-column demo table.
type Point struct {
	X int
	Y int
}

// CommitAsYouGo creates the demo table and inserts rows inside one
// explicitly committed transaction.
func CommitAsYouGo(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE points (x integer, y integer)"); err != nil {
		return err
	}
	for _, p := range [][2]int{{1, 1}, {2, 4}} {
		if _, err := tx.ExecContext(ctx, "INSERT INTO points (x, y) VALUES (?, ?)", p[0], p[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// BeginOnce wraps a batch of inserts in one transaction that commits on
// success and rolls back on any error.
func BeginOnce(ctx context.Context, db *sql.DB, points [][2]int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, p := range points {
		if _, err := tx.ExecContext(ctx, "INSERT INTO points (x, y) VALUES (?, ?)", p[0], p[1]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// FetchPoints returns rows with y greater than minY, ordered by x then y.
func FetchPoints(ctx context.Context, db *sql.DB, minY int) ([]Point, error) {
	rows, err := db.QueryContext(ctx, "SELECT x, y FROM points WHERE y > ? ORDER BY x, y", minY)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ormRollback shows that work inside a failed ORM transaction never
// reaches the database.
func ormRollback(tc *tour.Context) error {
	db := tc.DB

	errBoom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE points SET y = y + 100").Error; err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		return fmt.Errorf("expected the transaction to surface its error, got %v", err)
	}

	var maxY int
	if err := db.Raw("SELECT MAX(y) FROM points").Scan(&maxY).Error; err != nil {
		return err
	}
	tc.Printf("transaction rolled back; max y is still %d\n", maxY)
	return nil
}
