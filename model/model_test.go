package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/wordtables/format"
)

// buildTable builds a table from rows of texts with no merges.
func buildTable(index int, rows ...[]string) *Table {
	b := NewBuilder(index)
	for _, row := range rows {
		b.StartRow()
		for _, text := range row {
			b.AddCell(text, 1, VMergeNone)
		}
		b.EndRow()
	}
	return b.Table()
}

// mergedTable builds:
//
//	| M M M | D |
//	| M M M | E |
//	| F | G | H | I |
func mergedTable() *Table {
	b := NewBuilder(0)
	b.StartRow()
	b.AddCell("M", 3, VMergeRestart)
	b.AddCell("D", 1, VMergeNone)
	b.StartRow()
	b.AddCell("", 3, VMergeContinue)
	b.AddCell("E", 1, VMergeNone)
	b.StartRow()
	for _, text := range []string{"F", "G", "H", "I"} {
		b.AddCell(text, 1, VMergeNone)
	}
	return b.Table()
}

func TestBuilder_Simple(t *testing.T) {
	table := buildTable(2, []string{"A1", "B1"}, []string{"A2", "B2"})

	assert.Equal(t, 2, table.Index)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, 2, table.ColCount())
	assert.Equal(t, 4, table.CellCount())

	cell := table.Rows[1].Cells[1]
	assert.Equal(t, "B2", cell.Text)
	assert.Equal(t, 1, cell.Col)
	assert.Equal(t, 1, cell.ColSpan)
	assert.Equal(t, 1, cell.RowSpan)
	assert.False(t, cell.IsMerged())
}

func TestBuilder_ColSpan(t *testing.T) {
	b := NewBuilder(0)
	b.StartRow()
	b.AddCell("Wide", 2, VMergeNone)
	b.AddCell("Narrow", 0, VMergeNone) // clamped to 1
	table := b.Table()

	require.Len(t, table.Rows, 1)
	cells := table.Rows[0].Cells
	require.Len(t, cells, 2)
	assert.Equal(t, 2, cells[0].ColSpan)
	assert.Equal(t, 0, cells[0].Col)
	assert.Equal(t, 1, cells[1].ColSpan)
	assert.Equal(t, 2, cells[1].Col)
	assert.Equal(t, 3, table.Cols)
}

func TestBuilder_VerticalMerge(t *testing.T) {
	table := mergedTable()

	require.Len(t, table.Rows, 3)
	assert.Equal(t, 4, table.Cols)

	origin := table.Rows[0].Cells[0]
	assert.Equal(t, "M", origin.Text)
	assert.Equal(t, 3, origin.ColSpan)
	assert.Equal(t, 2, origin.RowSpan)
	assert.True(t, origin.IsMerged())

	// The continuation is not stored.
	require.Len(t, table.Rows[1].Cells, 1)
	assert.Equal(t, "E", table.Rows[1].Cells[0].Text)
	assert.Equal(t, 3, table.Rows[1].Cells[0].Col)
	assert.Len(t, table.Rows[2].Cells, 4)
}

func TestBuilder_ContinuationKeepsText(t *testing.T) {
	b := NewBuilder(0)
	b.StartRow()
	b.AddCell("top", 1, VMergeRestart)
	b.StartRow()
	b.AddCell("bottom", 1, VMergeContinue)
	table := b.Table()

	assert.Equal(t, "top\nbottom", table.Rows[0].Cells[0].Text)
	assert.Equal(t, 2, table.Rows[0].Cells[0].RowSpan)
}

func TestBuilder_OrphanContinuation(t *testing.T) {
	b := NewBuilder(0)
	b.StartRow()
	b.AddCell("plain", 1, VMergeNone)
	b.StartRow()
	b.AddCell("orphan", 1, VMergeContinue)
	table := b.Table()

	require.Len(t, table.Rows[1].Cells, 1)
	assert.Equal(t, "orphan", table.Rows[1].Cells[0].Text)
	assert.Equal(t, 1, table.Rows[0].Cells[0].RowSpan)
}

func TestBuilder_RegionClosedByGap(t *testing.T) {
	b := NewBuilder(0)
	b.StartRow()
	b.AddCell("a", 1, VMergeRestart)
	b.StartRow()
	b.AddCell("b", 1, VMergeNone)
	b.StartRow()
	b.AddCell("c", 1, VMergeContinue)
	table := b.Table()

	assert.Equal(t, 1, table.Rows[0].Cells[0].RowSpan)
	require.Len(t, table.Rows[2].Cells, 1)
	assert.Equal(t, "c", table.Rows[2].Cells[0].Text)
}

func TestBuilder_Skip(t *testing.T) {
	b := NewBuilder(0)
	b.EnsureCols(4)
	b.StartRow()
	b.Skip(1)
	b.AddCell("x", 1, VMergeNone)
	b.Skip(2)
	table := b.Table()

	assert.Equal(t, 4, table.Cols)
	assert.Equal(t, 1, table.Rows[0].Cells[0].Col)
}

func TestWalk_NoMerges(t *testing.T) {
	table := buildTable(0, []string{"A", "B"}, []string{"C", "D"})

	var got []string
	var positions []Position
	err := table.Walk(func(pos Position, cell *Cell) error {
		got = append(got, cell.Text)
		positions = append(positions, pos)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
	assert.Equal(t, Position{Table: 0, Row: 1, Col: 0}, positions[2])
}

func TestWalk_MergedRegionVisitedPerCoordinate(t *testing.T) {
	b := NewBuilder(7)
	b.StartRow()
	b.AddCell("merged", 3, VMergeRestart)
	b.StartRow()
	b.AddCell("", 3, VMergeContinue)
	table := b.Table()

	var visits []Position
	var origin *Cell
	err := table.Walk(func(pos Position, cell *Cell) error {
		visits = append(visits, pos)
		if origin == nil {
			origin = cell
		}
		assert.Same(t, origin, cell)
		assert.Equal(t, "merged", cell.Text)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, visits, 6)
	assert.Equal(t, []Position{
		{7, 0, 0}, {7, 0, 1}, {7, 0, 2},
		{7, 1, 0}, {7, 1, 1}, {7, 1, 2},
	}, visits)
}

func TestWalk_MixedMerges(t *testing.T) {
	table := mergedTable()

	var texts []string
	require.NoError(t, table.Walk(func(pos Position, cell *Cell) error {
		texts = append(texts, cell.Text)
		return nil
	}))
	assert.Equal(t, []string{
		"M", "M", "M", "D",
		"M", "M", "M", "E",
		"F", "G", "H", "I",
	}, texts)
}

func TestWalk_RaggedRows(t *testing.T) {
	table := buildTable(0, []string{"A", "B", "C"}, []string{"D"})

	count := 0
	require.NoError(t, table.Walk(func(Position, *Cell) error {
		count++
		return nil
	}))
	assert.Equal(t, 4, count)
}

func TestWalk_StopEarly(t *testing.T) {
	table := buildTable(0, []string{"A", "B"}, []string{"C", "D"})

	t.Run("SkipAll", func(t *testing.T) {
		count := 0
		err := table.Walk(func(Position, *Cell) error {
			count++
			if count == 2 {
				return SkipAll
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		err := table.Walk(func(Position, *Cell) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestCellAt(t *testing.T) {
	table := mergedTable()

	assert.Equal(t, "M", table.CellAt(0, 0).Text)
	assert.Equal(t, "M", table.CellAt(1, 2).Text)
	assert.Same(t, table.CellAt(0, 1), table.CellAt(1, 1))
	assert.Equal(t, "E", table.CellAt(1, 3).Text)
	assert.Equal(t, "H", table.CellAt(2, 2).Text)

	assert.Nil(t, table.CellAt(3, 0))
	assert.Nil(t, table.CellAt(0, 4))
	assert.Nil(t, table.CellAt(-1, 0))
	assert.Nil(t, table.CellAt(0, -1))
}

func TestGrid(t *testing.T) {
	table := mergedTable()
	grid := table.Grid()

	require.Len(t, grid, 3)
	for _, row := range grid {
		require.Len(t, row, 4)
	}
	assert.Same(t, grid[0][0], grid[1][2])
	assert.Equal(t, "I", grid[2][3].Text)
}

func TestTableEqual(t *testing.T) {
	a := buildTable(0, []string{"A", "B"})
	b := buildTable(0, []string{"A", "B"})
	a.Format = format.DOC
	b.Format = format.DOCX

	assert.True(t, a.Equal(b), "format is provenance only")

	c := buildTable(1, []string{"A", "B"})
	assert.False(t, a.Equal(c), "index differs")

	d := buildTable(0, []string{"A", "X"})
	assert.False(t, a.Equal(d), "text differs")

	e := buildTable(0, []string{"A", "B"})
	e.Rows[0].Cells[0].Value = 42
	assert.False(t, a.Equal(e), "value differs")

	f := buildTable(0, []string{"A", "B"})
	f.Rows[0].Cells[1].Err = errors.New("bad")
	assert.False(t, a.Equal(f), "error differs")

	var nilTable *Table
	assert.True(t, nilTable.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestTableGetText(t *testing.T) {
	table := buildTable(0, []string{"A1", "B1"}, []string{"A2", "B2"})
	assert.Equal(t, "A1\tB1\nA2\tB2\n", table.GetText())
}

func TestTableToMarkdown(t *testing.T) {
	table := buildTable(0, []string{"Name", "Age"}, []string{"Alice", "30"})

	want := "| Name | Age |\n| --- | --- |\n| Alice | 30 |\n"
	assert.Equal(t, want, table.ToMarkdown())
}

func TestTableToMarkdown_Merged(t *testing.T) {
	table := mergedTable()

	want := "| M |  |  | D |\n| --- | --- | --- | --- |\n|  |  |  | E |\n| F | G | H | I |\n"
	assert.Equal(t, want, table.ToMarkdown())
}

func TestTableToMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", (&Table{}).ToMarkdown())
}

func TestTableToCSV(t *testing.T) {
	table := buildTable(0, []string{"A", "B"}, []string{"C", "D"})
	assert.Equal(t, "A,B\nC,D\n", table.ToCSV())
}

func TestTableToCSV_SpecialChars(t *testing.T) {
	table := buildTable(0, []string{"Hello, World", `Say "Hi"`, "Line1\nLine2"})
	assert.Equal(t, "\"Hello, World\",\"Say \"\"Hi\"\"\",\"Line1\nLine2\"\n", table.ToCSV())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "table 1 row 2 col 3", Position{Table: 1, Row: 2, Col: 3}.String())
}
