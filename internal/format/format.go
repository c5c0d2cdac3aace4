// Package format renders the tabular parts of stage reports (the fast
// versus expert comparison) as fixed-width terminal tables.
package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Align specifies the horizontal alignment for a column.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignRight
)

// Column controls per-column formatting. Number is the 1-based column index.
type Column struct {
	Number int
	Align  Align
}

// Table is the project-owned table abstraction over go-pretty: build it
// once, render it with String.
type Table struct {
	writer table.Writer
}

// NewTable returns an empty terminal table.
func NewTable() *Table {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return &Table{writer: w}
}

// Header sets the column headers.
func (t *Table) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

// Row appends a data row. Values are converted to strings via fmt Sprint.
func (t *Table) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

// Columns applies per-column alignment.
func (t *Table) Columns(cfgs ...Column) {
	goCfgs := make([]table.ColumnConfig, len(cfgs))
	for i, c := range cfgs {
		goCfgs[i] = table.ColumnConfig{
			Number: c.Number,
			Align:  toTextAlign(c.Align),
		}
	}
	t.writer.SetColumnConfigs(goCfgs)
}

// String renders the table.
func (t *Table) String() string {
	return t.writer.Render()
}

func toTextAlign(a Align) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	default:
		return text.AlignDefault
	}
}
