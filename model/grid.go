package model

import "errors"

// SkipAll can be returned by a WalkFunc to stop the walk without error.
var SkipAll = errors.New("skip remaining grid coordinates")

// WalkFunc is called once per resolved grid coordinate.
type WalkFunc func(pos Position, cell *Cell) error

// Walk calls fn for every grid coordinate of the table in row-major order,
// columns ascending within a row. A merged cell covering R rows and C
// columns is passed R*C times, once per coordinate. Coordinates that no
// cell covers are not visited.
//
// The grid is expanded lazily: only per-column coverage is kept while
// walking, never the full grid.
func (t *Table) Walk(fn WalkFunc) error {
	type cover struct {
		cell  *Cell
		until int // last row covered
	}
	covers := make([]cover, t.Cols)

	for r := range t.Rows {
		cells := t.Rows[r].Cells
		for i := range cells {
			c := &cells[i]
			for k := 0; k < c.ColSpan; k++ {
				col := c.Col + k
				if col < 0 || col >= t.Cols {
					continue
				}
				covers[col] = cover{cell: c, until: r + c.RowSpan - 1}
			}
		}

		for col := range covers {
			cv := covers[col]
			if cv.cell == nil || cv.until < r {
				continue
			}
			if err := fn(Position{Table: t.Index, Row: r, Col: col}, cv.cell); err != nil {
				if errors.Is(err, SkipAll) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// CellAt returns the stored cell covering the given grid coordinate, or nil
// if the coordinate is outside the table or uncovered.
func (t *Table) CellAt(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= t.Cols {
		return nil
	}
	for r := row; r >= 0; r-- {
		cells := t.Rows[r].Cells
		for i := range cells {
			c := &cells[i]
			if col >= c.Col && col < c.Col+c.ColSpan && r+c.RowSpan > row {
				return c
			}
		}
	}
	return nil
}

// Grid materializes the dense grid. Each entry points at the stored cell
// covering that coordinate; uncovered coordinates are nil.
func (t *Table) Grid() [][]*Cell {
	grid := make([][]*Cell, len(t.Rows))
	for i := range grid {
		grid[i] = make([]*Cell, t.Cols)
	}
	_ = t.Walk(func(pos Position, cell *Cell) error {
		grid[pos.Row][pos.Col] = cell
		return nil
	})
	return grid
}
