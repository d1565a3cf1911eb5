package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tsawler/wordtables/format"
)

// Position identifies a grid coordinate within a document.
type Position struct {
	Table int // Document-order index of the table
	Row   int // Grid row (0-indexed)
	Col   int // Grid column (0-indexed)
}

func (p Position) String() string {
	return fmt.Sprintf("table %d row %d col %d", p.Table, p.Row, p.Col)
}

// Table represents one table in canonical form.
type Table struct {
	Index  int           // Position of the table in document order
	Format format.Format // Source container; not part of equality
	Cols   int           // Logical column count with merges resolved
	Rows   []Row
}

// Row is an ordered sequence of stored cells.
type Row struct {
	Cells []Cell
}

// Cell represents one stored cell, or one merged region.
type Cell struct {
	Text  string // Raw content as found in the document
	Value any    // Output of the transfer strategy (Text when none is set)
	Err   error  // Strategy failure for this cell, if any

	Col     int // Grid column of the top-left corner
	ColSpan int // Number of grid columns covered (>= 1)
	RowSpan int // Number of grid rows covered (>= 1)
}

// IsMerged reports whether the cell covers more than one grid coordinate.
func (c *Cell) IsMerged() bool {
	return c.ColSpan > 1 || c.RowSpan > 1
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the logical column count.
func (t *Table) ColCount() int {
	return t.Cols
}

// CellCount returns the number of stored cells.
func (t *Table) CellCount() int {
	n := 0
	for _, row := range t.Rows {
		n += len(row.Cells)
	}
	return n
}

// Equal reports whether two tables are structurally identical. The source
// format is provenance and is ignored.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Index != o.Index || t.Cols != o.Cols || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Rows {
		a, b := t.Rows[i].Cells, o.Rows[i].Cells
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !a[j].equal(&b[j]) {
				return false
			}
		}
	}
	return true
}

func (c *Cell) equal(o *Cell) bool {
	if c.Text != o.Text || c.Col != o.Col || c.ColSpan != o.ColSpan || c.RowSpan != o.RowSpan {
		return false
	}
	if (c.Err == nil) != (o.Err == nil) {
		return false
	}
	if c.Err != nil && c.Err.Error() != o.Err.Error() {
		return false
	}
	return reflect.DeepEqual(c.Value, o.Value)
}

// GetText returns the table as tab-separated lines of raw cell text.
// Merged regions appear once, at their top-left coordinate.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.originGrid() {
		for j, cell := range row {
			sb.WriteString(cell)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format, treating the first
// row as the header.
func (t *Table) ToMarkdown() string {
	grid := t.originGrid()
	if len(grid) == 0 || t.Cols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for _, text := range row {
			text = strings.ReplaceAll(text, "\n", " ")
			text = strings.ReplaceAll(text, "|", "\\|")
			sb.WriteString(" ")
			sb.WriteString(strings.TrimSpace(text))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(grid[0])
	sb.WriteString("|")
	for i := 0; i < t.Cols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}

	return sb.String()
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.originGrid() {
		for j, text := range row {
			// Escape quotes and wrap in quotes if necessary
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// originGrid lays out raw text with each stored cell at its origin and
// blanks at the coordinates a merge covers.
func (t *Table) originGrid() [][]string {
	grid := make([][]string, len(t.Rows))
	for i := range grid {
		grid[i] = make([]string, t.Cols)
	}
	for i, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Col >= 0 && cell.Col < t.Cols {
				grid[i][cell.Col] = cell.Text
			}
		}
	}
	return grid
}
