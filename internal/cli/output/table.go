package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows of column values in the effective mode. Text mode
// uses a boxed table, markdown mode a pipe table.
func (r *Renderer) Table(cols []string, rows [][]any) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		renderMarkdownTable(r.out, cols, rows)
	default:
		renderPrettyTable(r.out, cols, rows)
	}
}

func renderPrettyTable(w io.Writer, cols []string, rows [][]any) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(cols))
		for i := range cols {
			if i < len(row) {
				tr[i] = FormatValue(row[i])
			}
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func renderMarkdownTable(w io.Writer, cols []string, rows [][]any) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "_(0 rows)_")
		return
	}

	_, _ = fmt.Fprintln(w, "| "+strings.Join(cols, " | ")+" |")
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintln(w, "| "+strings.Join(seps, " | ")+" |")

	for _, row := range rows {
		cells := make([]string, len(cols))
		for i := range cols {
			if i < len(row) {
				cells[i] = FormatValue(row[i])
			}
		}
		_, _ = fmt.Fprintln(w, "| "+strings.Join(cells, " | ")+" |")
	}
	_, _ = fmt.Fprintf(w, "\n_(%d rows)_\n", len(rows))
}

// FormatValue renders a single cell value. Byte slices become strings
// for readability; nil becomes NULL.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
