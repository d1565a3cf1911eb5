package doc

import "encoding/binary"

const (
	sprmPFInTable        = 0x2416
	sprmPFTtp            = 0x2417
	sprmPFInnerTableCell = 0x244B
	sprmPFInnerTtp       = 0x244C
	sprmPItap            = 0x6649
	sprmPDtap            = 0x664A
	sprmPChgTabs         = 0xC615
	sprmTDefTable        = 0xD608
	sprmTMerge           = 0x5624
	sprmTVertMerge       = 0xD62B
)

// Vertical merge codes of a TC80 and sprmTVertMerge.
const (
	vertContinue = 1
	vertRestart  = 3
)

// eachSprm calls fn for every sprm in grpprl with its operand bytes. For
// variable-length operands the operand includes its size prefix.
func eachSprm(grpprl []byte, fn func(op uint16, arg []byte)) {
	le := binary.LittleEndian
	for i := 0; i+2 <= len(grpprl); {
		op := le.Uint16(grpprl[i:])
		i += 2
		size := operandSize(op, grpprl[i:])
		if size < 0 || i+size > len(grpprl) {
			return
		}
		fn(op, grpprl[i:i+size])
		i += size
	}
}

// operandSize returns the operand length of op, or -1 when it cannot be
// determined.
func operandSize(op uint16, rest []byte) int {
	switch op >> 13 {
	case 0, 1:
		return 1
	case 2, 4, 5:
		return 2
	case 3:
		return 4
	case 7:
		return 3
	}

	// spra 6: variable length
	if op == sprmTDefTable {
		if len(rest) < 2 {
			return -1
		}
		return int(binary.LittleEndian.Uint16(rest)) + 1
	}
	if op == sprmPChgTabs && len(rest) > 0 && rest[0] == 255 {
		return chgTabsSize(rest)
	}
	if len(rest) < 1 {
		return -1
	}
	return int(rest[0]) + 1
}

// chgTabsSize measures a sprmPChgTabs operand whose size byte is 255. The
// deleted tabs carry a position and a close tolerance each, the added tabs
// a position and a descriptor byte.
func chgTabsSize(rest []byte) int {
	if len(rest) < 2 {
		return -1
	}
	add := 2 + 4*int(rest[1])
	if add >= len(rest) {
		return -1
	}
	return add + 1 + 3*int(rest[add])
}

// rowDef is the table row layout carried by a row-end paragraph.
type rowDef struct {
	centers []int16 // itcMac+1 cell boundaries in twips
	tcs     []tcDef
}

// tcDef holds the merge flags of one cell.
type tcDef struct {
	horz int // 1 first of a merge, 2 or 3 merged into the previous cell
	vert int // vertContinue or vertRestart
}

func (d *rowDef) cellCount() int {
	return len(d.centers) - 1
}

func (d *rowDef) tc(i int) tcDef {
	if i < len(d.tcs) {
		return d.tcs[i]
	}
	return tcDef{}
}

// paraProps are the table-related paragraph properties.
type paraProps struct {
	inTable   bool
	ttp       bool
	itap      int
	innerCell bool
	innerTtp  bool
	row       *rowDef
}

// depth is the table nesting level, 0 outside any table.
func (p paraProps) depth() int {
	if p.itap > 0 {
		return p.itap
	}
	if p.inTable || p.ttp {
		return 1
	}
	return 0
}

func decodeProps(grpprl []byte) paraProps {
	var p paraProps
	type vmerge struct{ itc, code int }
	var vmerges []vmerge

	eachSprm(grpprl, func(op uint16, arg []byte) {
		switch op {
		case sprmPFInTable:
			p.inTable = arg[0] != 0
		case sprmPFTtp:
			p.ttp = arg[0] != 0
		case sprmPFInnerTableCell:
			p.innerCell = arg[0] != 0
		case sprmPFInnerTtp:
			p.innerTtp = arg[0] != 0
		case sprmPItap:
			p.itap = int(int32(binary.LittleEndian.Uint32(arg)))
		case sprmPDtap:
			p.itap += int(int32(binary.LittleEndian.Uint32(arg)))
		case sprmTDefTable:
			if len(arg) > 2 {
				p.row = decodeTDefTable(arg[2:])
			}
		case sprmTMerge:
			if p.row != nil {
				mergeCells(p.row, int(arg[0]), int(arg[1]))
			}
		case sprmTVertMerge:
			if len(arg) >= 3 {
				vmerges = append(vmerges, vmerge{itc: int(arg[1]), code: int(arg[2])})
			}
		}
	})

	if p.row != nil {
		for _, vm := range vmerges {
			if vm.itc < len(p.row.tcs) {
				p.row.tcs[vm.itc].vert = vm.code
			}
		}
	}
	if p.itap < 0 {
		p.itap = 0
	}
	return p
}

// decodeTDefTable parses a TDefTableOperand without its cb prefix.
func decodeTDefTable(b []byte) *rowDef {
	le := binary.LittleEndian
	if len(b) < 1 {
		return nil
	}
	itcMac := int(b[0])
	pos := 1
	if itcMac == 0 || pos+(itcMac+1)*2 > len(b) {
		return nil
	}

	d := &rowDef{centers: make([]int16, itcMac+1)}
	for i := range d.centers {
		d.centers[i] = int16(le.Uint16(b[pos:]))
		pos += 2
	}
	for i := 0; i < itcMac && pos+20 <= len(b); i++ {
		grf := le.Uint16(b[pos:])
		d.tcs = append(d.tcs, tcDef{
			horz: int(grf & 0x3),
			vert: int(grf>>5) & 0x3,
		})
		pos += 20
	}
	for len(d.tcs) < itcMac {
		d.tcs = append(d.tcs, tcDef{})
	}
	return d
}

// mergeCells applies sprmTMerge over cells [first, lim).
func mergeCells(d *rowDef, first, lim int) {
	for i := first; i < lim && i < len(d.tcs); i++ {
		if i == first {
			d.tcs[i].horz = 1
		} else {
			d.tcs[i].horz = 2
		}
	}
}
