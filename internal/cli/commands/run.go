package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ormtour/internal/cli/config"
	"github.com/leapstack-labs/ormtour/internal/db"
	"github.com/leapstack-labs/ormtour/internal/tour"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		runAll  bool
		chapter string
	)

	cmd := &cobra.Command{
		Use:   "run [example]...",
		Short: "Run tour examples",
		Long: `Run one or more tour examples.

Every example gets a fresh database: the in-memory sqlite backend by
default, or whatever database.dialect and database.dsn select. Use
--echo to see every SQL statement the ORM emits.`,
		Example: `  # Run the quickstart
  ormtour run quickstart

  # Run with the generated SQL echoed
  ormtour run quickstart --echo

  # Run a whole chapter
  ormtour run --chapter relationships

  # Run everything
  ormtour run --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, runAll, chapter)
		},
	}

	cmd.Flags().BoolVar(&runAll, "all", false, "Run every example")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Run every example in a chapter")
	return cmd
}

func runRun(cmd *cobra.Command, args []string, runAll bool, chapter string) error {
	cc := NewCommandContext(cmd)

	examples, err := selectExamples(args, runAll, chapter)
	if err != nil {
		return err
	}
	if len(examples) == 0 {
		return fmt.Errorf("nothing to run\nHint: pass an example name, --chapter, or --all")
	}

	if len(examples) == 1 {
		return runOne(cmd.Context(), cc, examples[0], cc.Renderer.Writer())
	}
	return runMany(cmd.Context(), cc, examples)
}

func selectExamples(args []string, runAll bool, chapter string) ([]tour.Example, error) {
	switch {
	case runAll:
		return tour.List(), nil
	case chapter != "":
		var out []tour.Example
		for _, ex := range tour.List() {
			if ex.Chapter == chapter {
				out = append(out, ex)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("no examples in chapter %q\nRun 'ormtour list' to see chapters", chapter)
		}
		return out, nil
	default:
		out := make([]tour.Example, 0, len(args))
		for _, name := range args {
			ex, err := tour.Lookup(name)
			if err != nil {
				return nil, err
			}
			out = append(out, ex)
		}
		return out, nil
	}
}

// runOne executes a single example against a fresh database, writing
// its narrative to w.
func runOne(ctx context.Context, cc *CommandContext, ex tour.Example, w io.Writer) error {
	gdb, err := db.Open(cc.Config.Database, cc.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	fmt.Fprintf(w, "=== %s: %s ===\n", ex.Name, ex.Title)
	start := time.Now()
	if err := ex.Run(ctx, &tour.Context{DB: gdb.WithContext(ctx), Out: w, Logger: cc.Logger}); err != nil {
		return fmt.Errorf("example %s failed: %w", ex.Name, err)
	}
	cc.Logger.Debug("example finished", "example", ex.Name, "elapsed", time.Since(start))
	return nil
}

// runMany fans examples out across workers, buffering each example's
// output so the transcripts never interleave, then flushes them in
// order.
func runMany(ctx context.Context, cc *CommandContext, examples []tour.Example) error {
	// Parallelism only pays off for private in-memory databases; a
	// shared server gets the examples one at a time.
	limit := 4
	if cc.Config.Database.Dialect != config.DefaultDialect || cc.Config.Database.DSN != "" {
		limit = 1
	}

	bufs := make([]bytes.Buffer, len(examples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ex := range examples {
		g.Go(func() error {
			return runOne(gctx, cc, ex, &bufs[i])
		})
	}
	runErr := g.Wait()

	w := cc.Renderer.Writer()
	for i := range bufs {
		if bufs[i].Len() == 0 {
			continue
		}
		_, _ = io.Copy(w, &bufs[i])
		fmt.Fprintln(w)
	}
	return runErr
}
