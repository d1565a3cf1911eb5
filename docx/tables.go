package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/wordtables/model"
)

// ParsedTable represents a parsed table in DOCX terms, before merge
// resolution.
type ParsedTable struct {
	Rows     []ParsedTableRow
	GridCols int // Number of columns declared by <w:tblGrid>
}

// ParsedTableRow represents a parsed table row.
type ParsedTableRow struct {
	Cells      []ParsedTableCell
	GridBefore int // Grid columns before the first cell
	GridAfter  int // Grid columns after the last cell
}

// ParsedTableCell represents a parsed table cell.
type ParsedTableCell struct {
	Text    string       // Combined text from all paragraphs
	ColSpan int          // Number of columns spanned (gridSpan)
	VMerge  model.VMerge // Vertical merge role (vMerge)
}

// TableParser handles parsing of DOCX tables.
type TableParser struct{}

// NewTableParser creates a new table parser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTable parses a table XML element into a ParsedTable.
func (tp *TableParser) ParseTable(tbl tableXML) ParsedTable {
	parsed := ParsedTable{
		GridCols: len(tbl.Grid.Cols),
	}

	for _, row := range tbl.Rows {
		parsed.Rows = append(parsed.Rows, tp.parseRow(row))
	}

	return parsed
}

// parseRow parses a table row.
func (tp *TableParser) parseRow(row tableRowXML) ParsedTableRow {
	parsed := ParsedTableRow{
		GridBefore: parseCount(row.Properties.GridBefore.Val, 0),
		GridAfter:  parseCount(row.Properties.GridAfter.Val, 0),
	}

	for _, cell := range row.Cells {
		pc := tp.parseCell(cell)

		// Legacy horizontal merge: fold into the cell on the left
		if h := cell.Properties.HMerge; h != nil && h.Val != "restart" && len(parsed.Cells) > 0 {
			prev := &parsed.Cells[len(parsed.Cells)-1]
			prev.ColSpan += pc.ColSpan
			if pc.Text != "" {
				prev.Text = joinNonEmpty(prev.Text, pc.Text)
			}
			continue
		}

		parsed.Cells = append(parsed.Cells, pc)
	}

	return parsed
}

// parseCell parses a table cell.
func (tp *TableParser) parseCell(cell tableCellXML) ParsedTableCell {
	parsed := ParsedTableCell{
		ColSpan: parseCount(cell.Properties.GridSpan.Val, 1),
		VMerge:  model.VMergeNone,
	}

	if vm := cell.Properties.VMerge; vm != nil {
		if vm.Val == "restart" {
			parsed.VMerge = model.VMergeRestart
		} else {
			// Empty val means continue
			parsed.VMerge = model.VMergeContinue
		}
	}

	parsed.Text = tp.cellText(cell)
	return parsed
}

// cellText combines the non-empty paragraphs of a cell with newlines.
// Nested tables contribute one line per nested cell.
func (tp *TableParser) cellText(cell tableCellXML) string {
	var parts []string
	for _, block := range cell.Blocks {
		switch {
		case block.Paragraph != nil:
			if text := paragraphText(*block.Paragraph); text != "" {
				parts = append(parts, text)
			}
		case block.Table != nil:
			for _, row := range block.Table.Rows {
				for _, nested := range row.Cells {
					if text := tp.cellText(nested); text != "" {
						parts = append(parts, text)
					}
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}

// paragraphText extracts the text of a paragraph in run order.
func paragraphText(p paragraphXML) string {
	var sb strings.Builder
	for _, item := range p.Items {
		switch item.XMLName.Local {
		case "pPr", "del", "moveFrom":
			continue
		case "r":
			writeRunContent(&sb, item.Content)
		default:
			for _, run := range item.Runs {
				writeRunContent(&sb, run.Content)
			}
		}
	}
	return sb.String()
}

// writeRunContent appends the text of one run.
func writeRunContent(sb *strings.Builder, content []runItemXML) {
	for _, c := range content {
		switch c.XMLName.Local {
		case "t":
			sb.WriteString(c.Value)
		case "tab", "ptab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		case "noBreakHyphen":
			sb.WriteString("-")
		}
	}
}

// ToModelTable converts a ParsedTable to a canonical model.Table at the
// given document-order index.
func (pt *ParsedTable) ToModelTable(index int) *model.Table {
	b := model.NewBuilder(index)
	b.EnsureCols(pt.GridCols)

	for _, row := range pt.Rows {
		b.StartRow()
		b.Skip(row.GridBefore)
		for _, cell := range row.Cells {
			b.AddCell(cell.Text, cell.ColSpan, cell.VMerge)
		}
		b.Skip(row.GridAfter)
		b.EndRow()
	}

	return b.Table()
}

// parseCount parses a positive integer attribute, returning def when the
// value is missing or invalid.
func parseCount(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return def
	}
	if n == 0 && def > 0 {
		return def
	}
	return n
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
