package model

// VMerge describes a cell's role in a vertical merge.
type VMerge int

const (
	// VMergeNone marks a cell that is not vertically merged.
	VMergeNone VMerge = iota
	// VMergeRestart marks the first cell of a vertically merged region.
	VMergeRestart
	// VMergeContinue marks a cell covered by the region above it.
	VMergeContinue
)

// region tracks an open vertical merge by the indices of its origin cell.
type region struct {
	row, cell int
	last      int // last row the region covers so far
}

// Builder assembles a canonical Table from format-native rows. It stores
// exactly one cell per merged region: continuation cells grow the RowSpan
// of the region above and are not stored.
type Builder struct {
	table *Table
	open  map[int]*region // keyed by the origin's grid column
	col   int
	inRow bool
}

// NewBuilder starts a table at the given document-order index.
func NewBuilder(index int) *Builder {
	return &Builder{
		table: &Table{Index: index},
		open:  make(map[int]*region),
	}
}

// EnsureCols raises the logical column count to at least n, as declared by
// a table grid.
func (b *Builder) EnsureCols(n int) {
	if n > b.table.Cols {
		b.table.Cols = n
	}
}

// StartRow begins a new row, ending the current one if needed.
func (b *Builder) StartRow() {
	if b.inRow {
		b.EndRow()
	}
	b.table.Rows = append(b.table.Rows, Row{})
	b.col = 0
	b.inRow = true
}

// Skip advances over n grid columns that no cell occupies.
func (b *Builder) Skip(n int) {
	if n <= 0 {
		return
	}
	b.ensureRow()
	b.closeRegions(b.col, n)
	b.col += n
}

// AddCell appends a cell spanning colSpan grid columns to the current row.
func (b *Builder) AddCell(text string, colSpan int, vm VMerge) {
	b.ensureRow()
	if colSpan < 1 {
		colSpan = 1
	}
	rowIdx := len(b.table.Rows) - 1

	if vm == VMergeContinue {
		if r, ok := b.open[b.col]; ok && r.last == rowIdx-1 {
			origin := &b.table.Rows[r.row].Cells[r.cell]
			origin.RowSpan++
			if text != "" {
				if origin.Text != "" {
					origin.Text += "\n"
				}
				origin.Text += text
			}
			r.last = rowIdx
			b.col += colSpan
			return
		}
		// Continuation without a region above: keep the content.
		vm = VMergeNone
	}

	row := &b.table.Rows[rowIdx]
	row.Cells = append(row.Cells, Cell{
		Text:    text,
		Col:     b.col,
		ColSpan: colSpan,
		RowSpan: 1,
	})
	b.closeRegions(b.col, colSpan)
	if vm == VMergeRestart {
		b.open[b.col] = &region{row: rowIdx, cell: len(row.Cells) - 1, last: rowIdx}
	}
	b.col += colSpan
}

// EndRow finishes the current row.
func (b *Builder) EndRow() {
	if !b.inRow {
		return
	}
	if b.col > b.table.Cols {
		b.table.Cols = b.col
	}
	b.inRow = false
}

// Table finishes the table and returns it.
func (b *Builder) Table() *Table {
	b.EndRow()
	return b.table
}

func (b *Builder) ensureRow() {
	if !b.inRow {
		b.StartRow()
	}
}

// closeRegions drops open regions whose origin column lies in [from, from+n).
func (b *Builder) closeRegions(from, n int) {
	for col := range b.open {
		if col >= from && col < from+n {
			delete(b.open, col)
		}
	}
}
