// Package report flattens analysis reports into per-timestamp tables for CSV
// export and terminal rendering.
package report

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a header plus string rows; Aligns is optional per column.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	Aligns []Align
}

// Head returns a copy of t with at most n rows.
func (t Table) Head(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	t.Rows = t.Rows[:n]
	return t
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render draws t with rounded borders on a terminal and as plain text
// otherwise.
func Render(w io.Writer, t Table) error {
	columns := len(t.Header)
	if columns == 0 {
		return nil
	}

	tw := table.NewWriter()
	if IsTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Box.PaddingLeft = ""
		tw.Style().Box.PaddingRight = "  "
	}
	if t.Title != "" {
		tw.SetTitle("%s", t.Title)
	}

	header := make(table.Row, columns)
	for i := range header {
		header[i] = t.Header[i]
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(t.Aligns) && t.Aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}
