// Package testdocs writes small DOCX and DOC fixtures for tests. Both
// writers describe the same logical tables, so a fixture built with DOC and
// one built with DOCX extract to equal canonical tables.
package testdocs

import "github.com/tsawler/wordtables/model"

// Cell describes one physical cell of a fixture table.
type Cell struct {
	Text    string       // "\n" separates paragraphs
	ColSpan int          // 0 means 1
	VMerge  model.VMerge // Vertical merge role
}

// Table is a fixture table: rows of physical cells. A vertically merged
// region has a VMergeRestart cell in its first row and a VMergeContinue
// cell in each row below it.
type Table [][]Cell

// Row builds a row of plain single-column cells.
func Row(texts ...string) []Cell {
	cells := make([]Cell, len(texts))
	for i, text := range texts {
		cells[i] = Cell{Text: text}
	}
	return cells
}

func span(c Cell) int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

// width returns the widest row of t in grid columns.
func (t Table) width() int {
	w := 0
	for _, row := range t {
		n := 0
		for _, c := range row {
			n += span(c)
		}
		if n > w {
			w = n
		}
	}
	return w
}
