package doc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/wordtables/internal/testdocs"
	"github.com/tsawler/wordtables/model"
)

func readDOC(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

// cellTexts returns the stored cell texts of each row.
func cellTexts(table *model.Table) [][]string {
	var out [][]string
	for _, row := range table.Rows {
		var texts []string
		for _, cell := range row.Cells {
			texts = append(texts, cell.Text)
		}
		out = append(out, texts)
	}
	return out
}

func TestReader_SimpleTable(t *testing.T) {
	data := testdocs.DOC(testdocs.Table{
		testdocs.Row("A1", "B1"),
		testdocs.Row("A2", "B2"),
	})

	r := readDOC(t, data)
	require.Equal(t, 1, r.TableCount())

	table := r.Tables()[0].ToModelTable(0)
	assert.Equal(t, 2, table.Cols)
	assert.Equal(t, [][]string{{"A1", "B1"}, {"A2", "B2"}}, cellTexts(table))
}

func TestReader_TableStreams(t *testing.T) {
	tbl := testdocs.Table{testdocs.Row("x", "y")}

	tests := []struct {
		name string
		opts testdocs.DOCOptions
	}{
		{"1Table", testdocs.DOCOptions{}},
		{"0Table", testdocs.DOCOptions{Table0: true}},
		{"ANSI", testdocs.DOCOptions{ANSI: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readDOC(t, testdocs.DOCWith(tt.opts, tbl))
			require.Equal(t, 1, r.TableCount())
			assert.Equal(t, [][]string{{"x", "y"}}, cellTexts(r.Tables()[0].ToModelTable(0)))
		})
	}
}

func TestReader_Encodings(t *testing.T) {
	tbl := testdocs.Table{testdocs.Row("café", "€5")}

	r := readDOC(t, testdocs.DOCWith(testdocs.DOCOptions{ANSI: true}, tbl))
	assert.Equal(t, [][]string{{"café", "€5"}}, cellTexts(r.Tables()[0].ToModelTable(0)))

	wide := testdocs.Table{testdocs.Row("日本語", "😀")}
	r = readDOC(t, testdocs.DOC(wide))
	assert.Equal(t, [][]string{{"日本語", "😀"}}, cellTexts(r.Tables()[0].ToModelTable(0)))
}

func TestReader_MultipleTables(t *testing.T) {
	data := testdocs.DOC(
		testdocs.Table{testdocs.Row("first")},
		testdocs.Table{testdocs.Row("second", "table")},
	)

	r := readDOC(t, data)
	require.Equal(t, 2, r.TableCount())
	assert.Equal(t, [][]string{{"first"}}, cellTexts(r.Tables()[0].ToModelTable(0)))
	assert.Equal(t, [][]string{{"second", "table"}}, cellTexts(r.Tables()[1].ToModelTable(1)))
}

func TestReader_ManyParagraphs(t *testing.T) {
	var tbl testdocs.Table
	for i := 0; i < 40; i++ {
		tbl = append(tbl, testdocs.Row(fmt.Sprintf("r%d", i), "b", "c"))
	}

	r := readDOC(t, testdocs.DOC(tbl))
	// A PlcBtePapx with one page is 12 bytes
	assert.Greater(t, r.fib.lcbPlcfBtePapx, uint32(12))

	require.Equal(t, 1, r.TableCount())
	table := r.Tables()[0].ToModelTable(0)
	require.Len(t, table.Rows, 40)
	for i, texts := range cellTexts(table) {
		assert.Equal(t, []string{fmt.Sprintf("r%d", i), "b", "c"}, texts)
	}
}

func TestReader_CellParagraphs(t *testing.T) {
	data := testdocs.DOC(testdocs.Table{
		{{Text: "line one\nline two"}, {Text: ""}},
	})

	table := readDOC(t, data).Tables()[0].ToModelTable(0)
	assert.Equal(t, [][]string{{"line one\nline two", ""}}, cellTexts(table))
}

func TestReader_FieldCodes(t *testing.T) {
	data := testdocs.DOC(testdocs.Table{
		{{Text: "Page \x13 PAGE \\* MERGEFORMAT \x147\x15"}, {Text: "\x13 DATE \x15"}},
	})

	table := readDOC(t, data).Tables()[0].ToModelTable(0)
	assert.Equal(t, [][]string{{"Page 7", ""}}, cellTexts(table))
}

func TestReader_MergedCells(t *testing.T) {
	data := testdocs.DOC(testdocs.Table{
		{{Text: "M", ColSpan: 2, VMerge: model.VMergeRestart}, {Text: "C"}},
		{{ColSpan: 2, VMerge: model.VMergeContinue}, {Text: "D"}},
		testdocs.Row("x", "y", "z"),
	})

	table := readDOC(t, data).Tables()[0].ToModelTable(0)
	require.Equal(t, 3, table.Cols)
	require.Len(t, table.Rows, 3)

	m := table.Rows[0].Cells[0]
	assert.Equal(t, "M", m.Text)
	assert.Equal(t, 0, m.Col)
	assert.Equal(t, 2, m.ColSpan)
	assert.Equal(t, 2, m.RowSpan)
	assert.Equal(t, 2, table.Rows[0].Cells[1].Col)

	require.Len(t, table.Rows[1].Cells, 1)
	assert.Equal(t, "D", table.Rows[1].Cells[0].Text)
	assert.Equal(t, 2, table.Rows[1].Cells[0].Col)

	assert.Equal(t, [][]string{{"M", "C"}, {"D"}, {"x", "y", "z"}}, cellTexts(table))
}

func TestReader_NoTables(t *testing.T) {
	data := testdocs.DOCWith(testdocs.DOCOptions{Raw: "Just text\rA second paragraph\r"})

	r := readDOC(t, data)
	assert.Equal(t, 0, r.TableCount())
	assert.Empty(t, r.Tables())
}

func TestReader_Encrypted(t *testing.T) {
	data := testdocs.DOCWith(testdocs.DOCOptions{Encrypted: true}, testdocs.Table{testdocs.Row("x")})

	_, err := NewReader(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrEncrypted)
}

func TestReader_NotCompoundFile(t *testing.T) {
	text := []byte("this is not a compound file at all")
	_, err := NewReader(bytes.NewReader(text), int64(len(text)))
	assert.ErrorIs(t, err, ErrNotWordDocument)

	// A valid DOCX is not a Word binary document either
	docx := testdocs.DOCX(testdocs.Table{testdocs.Row("x")})
	_, err = NewReader(bytes.NewReader(docx), int64(len(docx)))
	assert.ErrorIs(t, err, ErrNotWordDocument)
}

func TestReader_CorruptHeader(t *testing.T) {
	valid := testdocs.DOC(testdocs.Table{testdocs.Row("x")})

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"directory sectors", func(b []byte) []byte { b[0x2B] = 0x7F; return b }},
		{"FAT sectors", func(b []byte) []byte { b[0x2F] = 0x7F; return b }},
		{"mini FAT sectors", func(b []byte) []byte { b[0x43] = 0x7F; return b }},
		{"DIFAT sectors", func(b []byte) []byte { b[0x4B] = 0x7F; return b }},
		{"first directory sector", func(b []byte) []byte { b[0x33] = 0x7F; return b }},
		{"sector shift", func(b []byte) []byte { b[0x1E] = 12; return b }},
		{"truncated", func(b []byte) []byte { return b[:300] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(valid))
			_, err := NewReader(bytes.NewReader(data), int64(len(data)))
			assert.ErrorIs(t, err, ErrNotWordDocument)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.doc")
	require.NoError(t, os.WriteFile(path, testdocs.DOC(testdocs.Table{testdocs.Row("a")}), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.TableCount())
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.doc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
