package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ormtour/internal/db"
	"github.com/leapstack-labs/ormtour/internal/tour"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	var seedExample string

	cmd := &cobra.Command{
		Use:   "sql [query]",
		Short: "Explore an example database with raw SQL",
		Long: `Open an interactive SQL prompt against a freshly seeded database.

The database is populated by running one of the tour examples (the
quickstart by default) with its narrative output discarded, leaving its
tables and rows behind to explore.

When invoked with a query argument, executes it and exits.`,
		Example: `  # Interactive prompt over the quickstart schema
  ormtour sql

  # Explore the inheritance chapter's tables
  ormtour sql --seed inheritance/single-table

  # One-shot query
  ormtour sql "SELECT name, fullname FROM users"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, args, seedExample)
		},
	}

	cmd.Flags().StringVar(&seedExample, "seed", "quickstart", "Example whose schema and data to load")
	return cmd
}

func runSQL(cmd *cobra.Command, args []string, seedExample string) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	ex, err := tour.Lookup(seedExample)
	if err != nil {
		return err
	}

	gdb, err := db.Open(cc.Config.Database, cc.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	// Seed by running the example silently.
	if err := ex.Run(ctx, &tour.Context{DB: gdb.WithContext(ctx), Out: io.Discard, Logger: cc.Logger}); err != nil {
		return fmt.Errorf("failed to seed from example %s: %w", ex.Name, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}

	if len(args) == 1 {
		return execAndRender(cmd, cc, sqlDB, args[0])
	}
	return sqlREPL(cmd, cc, sqlDB, ex.Name)
}

func sqlREPL(cmd *cobra.Command, cc *CommandContext, sqlDB *sql.DB, seeded string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ormtour> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "ormtour SQL prompt (seeded from %s)\n", seeded)
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cc, sqlDB, line); quit {
				return nil
			}
			continue
		}

		if err := execAndRender(cmd, cc, sqlDB, line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}

// handleDotCommand processes REPL meta commands. Returns true on .quit.
func handleDotCommand(cmd *cobra.Command, cc *CommandContext, sqlDB *sql.DB, line string) bool {
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprintln(out, ".tables          List tables")
		_, _ = fmt.Fprintln(out, ".schema <table>  Show a table's columns")
		_, _ = fmt.Fprintln(out, ".quit            Exit")
	case ".tables":
		if err := execAndRender(cmd, cc, sqlDB,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	case ".schema":
		if len(fields) < 2 {
			_, _ = fmt.Fprintln(out, "Usage: .schema <table>")
			return false
		}
		if err := execAndRender(cmd, cc, sqlDB,
			fmt.Sprintf("SELECT name, type, \"notnull\", pk FROM pragma_table_info(%q)", fields[1])); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	default:
		_, _ = fmt.Fprintf(out, "Unknown command %s (try .help)\n", fields[0])
	}
	return false
}

func execAndRender(cmd *cobra.Command, cc *CommandContext, sqlDB *sql.DB, query string) error {
	rows, err := sqlDB.QueryContext(cmd.Context(), query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	cols, data, err := collectRows(rows)
	if err != nil {
		return err
	}
	cc.Renderer.Table(cols, data)
	return nil
}

// collectRows drains a result set into column names and row values.
func collectRows(rows *sql.Rows) ([]string, [][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, data, nil
}
