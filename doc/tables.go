package doc

import (
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/tsawler/wordtables/model"
)

// Special characters of the main text.
const (
	chCell       = 0x07 // cell mark, or row mark in a TTP paragraph
	chTab        = 0x09
	chLineBreak  = 0x0B
	chPageBreak  = 0x0C
	chParagraph  = 0x0D
	chFieldBegin = 0x13
	chFieldSep   = 0x14
	chFieldEnd   = 0x15
	chNBHyphen   = 0x1E
)

// paragraph is one run of main text ended by a paragraph or cell mark.
type paragraph struct {
	text  string
	mark  uint16
	props paraProps
}

// splitParagraphs cuts the main text at paragraph marks and resolves the
// properties of each. Field instructions are dropped, field results kept.
func splitParagraphs(chars []char, papx papxIndex) []paragraph {
	var paras []paragraph
	var units []uint16
	var fields []bool // per open field, true until its separator

	inInstruction := func() bool {
		for _, instr := range fields {
			if instr {
				return true
			}
		}
		return false
	}

	for _, c := range chars {
		switch c.unit {
		case chFieldBegin:
			fields = append(fields, true)
			continue
		case chFieldSep:
			if n := len(fields); n > 0 {
				fields[n-1] = false
			}
			continue
		case chFieldEnd:
			if n := len(fields); n > 0 {
				fields = fields[:n-1]
			}
			continue
		case chParagraph, chCell, chPageBreak:
			paras = append(paras, paragraph{
				text:  string(utf16.Decode(units)),
				mark:  c.unit,
				props: decodeProps(papx.lookup(c.fc)),
			})
			units = units[:0]
			continue
		}

		if inInstruction() {
			continue
		}
		switch u := c.unit; {
		case u == chLineBreak:
			units = append(units, '\n')
		case u == chNBHyphen:
			units = append(units, '-')
		case u == chTab || u >= 0x20:
			units = append(units, u)
		}
		// Other control characters anchor objects, notes and optional
		// hyphens.
	}
	if len(units) > 0 {
		paras = append(paras, paragraph{text: string(utf16.Decode(units)), mark: chParagraph})
	}
	return paras
}

// ParsedTable is one top-level table in physical form: rows of cell texts
// with the row layouts Word stored alongside them.
type ParsedTable struct {
	Rows []ParsedRow
}

// ParsedRow is one table row.
type ParsedRow struct {
	Cells []string
	def   *rowDef
}

// assembleTables groups in-table paragraphs into tables. A cell mark ends a
// cell, a TTP paragraph ends a row and any paragraph outside a table ends
// the current table. Nested table paragraphs fold into the enclosing cell.
func assembleTables(paras []paragraph) []ParsedTable {
	var (
		tables []ParsedTable
		cur    *ParsedTable
		cells  []string
		parts  []string
	)

	addPart := func(text string) {
		if text != "" {
			parts = append(parts, text)
		}
	}
	endCell := func() {
		cells = append(cells, strings.Join(parts, "\n"))
		parts = nil
	}
	endRow := func(def *rowDef) {
		if len(parts) > 0 {
			endCell()
		}
		cur.Rows = append(cur.Rows, ParsedRow{Cells: cells, def: def})
		cells = nil
	}
	endTable := func() {
		if len(cells) > 0 || len(parts) > 0 {
			endRow(nil)
		}
		if len(cur.Rows) > 0 {
			tables = append(tables, *cur)
		}
		cur = nil
	}

	for _, p := range paras {
		depth := p.props.depth()
		if depth == 0 {
			if cur != nil {
				endTable()
			}
			continue
		}
		if cur == nil {
			cur = &ParsedTable{}
		}

		switch {
		case depth > 1:
			if !p.props.innerTtp {
				addPart(p.text)
			}
		case p.props.ttp:
			endRow(p.props.row)
		case p.mark == chCell:
			addPart(p.text)
			endCell()
		default:
			addPart(p.text)
		}
	}
	if cur != nil {
		endTable()
	}
	return tables
}

// layoutCell is a row cell placed on the table grid.
type layoutCell struct {
	text  string
	start int
	span  int
	vm    model.VMerge
}

// gridBounds is the sorted union of all row boundaries.
func (pt *ParsedTable) gridBounds() []int {
	seen := make(map[int]bool)
	var bounds []int
	for _, row := range pt.Rows {
		if !row.usable() {
			continue
		}
		for _, x := range row.def.centers {
			if !seen[int(x)] {
				seen[int(x)] = true
				bounds = append(bounds, int(x))
			}
		}
	}
	sort.Ints(bounds)
	return bounds
}

// usable reports whether the row layout describes every cell of the row.
func (r ParsedRow) usable() bool {
	return r.def != nil && r.def.cellCount() >= len(r.Cells)
}

// layout places the row's cells on the grid. Rows without a usable layout
// get one column per cell.
func (r ParsedRow) layout(bounds []int) []layoutCell {
	out := make([]layoutCell, 0, len(r.Cells))
	if !r.usable() {
		for i, text := range r.Cells {
			out = append(out, layoutCell{text: text, start: i, span: 1})
		}
		return out
	}

	col := func(x int16) int {
		return sort.SearchInts(bounds, int(x))
	}
	for i, text := range r.Cells {
		start, end := col(r.def.centers[i]), col(r.def.centers[i+1])
		if end <= start {
			end = start + 1
		}
		tc := r.def.tc(i)

		if tc.horz >= 2 && len(out) > 0 {
			last := &out[len(out)-1]
			if end > last.start+last.span {
				last.span = end - last.start
			}
			if text != "" {
				if last.text != "" {
					last.text += "\n"
				}
				last.text += text
			}
			continue
		}

		lc := layoutCell{text: text, start: start, span: end - start}
		switch tc.vert {
		case vertRestart:
			lc.vm = model.VMergeRestart
		case vertContinue:
			lc.vm = model.VMergeContinue
		}
		out = append(out, lc)
	}
	return out
}

// ToModelTable normalizes the table into the canonical model.
func (pt *ParsedTable) ToModelTable(index int) *model.Table {
	bounds := pt.gridBounds()
	b := model.NewBuilder(index)
	if len(bounds) > 1 {
		b.EnsureCols(len(bounds) - 1)
	}

	for _, row := range pt.Rows {
		b.StartRow()
		next := 0
		for _, lc := range row.layout(bounds) {
			if lc.start > next {
				b.Skip(lc.start - next)
			} else if lc.start < next {
				lc.start = next
			}
			b.AddCell(lc.text, lc.span, lc.vm)
			next = lc.start + lc.span
		}
		b.EndRow()
	}
	return b.Table()
}
