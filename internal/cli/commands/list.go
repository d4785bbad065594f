package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/ormtour/internal/cli/output"
	"github.com/leapstack-labs/ormtour/internal/tour"
)

// listEntry is the JSON shape of one listed example.
type listEntry struct {
	Name    string `json:"name"`
	Chapter string `json:"chapter"`
	Title   string `json:"title"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var chapterFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tour examples",
		Long: `List the examples in the tour, grouped by chapter.

Each example name can be passed to 'ormtour run'.`,
		Example: `  # List everything
  ormtour list

  # List one chapter
  ormtour list --chapter relationships

  # Machine-readable listing
  ormtour list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, chapterFilter)
		},
	}

	cmd.Flags().StringVar(&chapterFilter, "chapter", "", "Only list examples from this chapter")
	return cmd
}

func runList(cmd *cobra.Command, chapterFilter string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	examples := tour.List()
	if chapterFilter != "" {
		filtered := examples[:0]
		for _, ex := range examples {
			if ex.Chapter == chapterFilter {
				filtered = append(filtered, ex)
			}
		}
		examples = filtered
	}

	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]listEntry, 0, len(examples))
		for _, ex := range examples {
			entries = append(entries, listEntry{Name: ex.Name, Chapter: ex.Chapter, Title: ex.Title})
		}
		return r.JSON(entries)
	}

	titler := cases.Title(language.English)
	var chapter string
	cols := []string{"Example", "Description"}
	var rows [][]any
	flush := func() {
		if len(rows) > 0 {
			r.Header(2, titler.String(chapter))
			r.Table(cols, rows)
			r.Println()
			rows = nil
		}
	}

	for _, ex := range examples {
		if ex.Chapter != chapter {
			flush()
			chapter = ex.Chapter
		}
		rows = append(rows, []any{ex.Name, ex.Title})
	}
	flush()

	if len(examples) == 0 {
		r.Println("No examples found.")
	}
	return nil
}
