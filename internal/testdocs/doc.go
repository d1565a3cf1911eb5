package testdocs

import (
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/wordtables/model"
)

const (
	fcText     = 1024 // text starts after the FIB
	cellWidth  = 1440 // twips per grid column
	fibFlags   = 0x000A
	fibCcpText = 0x004C

	fibPlcfBtePapx = 0x0102
	fibClx         = 0x01A2
)

// DOCOptions varies the binary layout of a DOC fixture.
type DOCOptions struct {
	ANSI      bool   // store text as one CP1252 piece instead of UTF-16
	Encrypted bool   // set fEncrypted in the FIB
	Table0    bool   // use the 0Table stream instead of 1Table
	Raw       string // when set, write this text verbatim instead of tables
}

type paragraph struct {
	units  []uint16 // text including the paragraph mark
	grpprl []byte
}

// DOC returns a Word 97-2003 compound file whose main text holds tables
// separated by paragraphs.
func DOC(tables ...Table) []byte {
	return DOCWith(DOCOptions{}, tables...)
}

// DOCWith is DOC with layout options.
func DOCWith(opts DOCOptions, tables ...Table) []byte {
	var paras []paragraph
	if opts.Raw != "" {
		paras = rawParagraphs(opts.Raw)
	} else {
		paras = append(paras, plainParagraph("Intro"))
		for _, t := range tables {
			paras = append(paras, tableParagraphs(t)...)
			paras = append(paras, plainParagraph(""))
		}
	}
	if len(paras) == 0 {
		paras = append(paras, plainParagraph(""))
	}

	var units []uint16
	for _, p := range paras {
		units = append(units, p.units...)
	}
	ccp := uint32(len(units))

	charSize := uint32(2)
	if opts.ANSI {
		charSize = 1
	}
	fcOf := func(cp uint32) uint32 { return fcText + cp*charSize }

	// Text, then the PAPX FKP pages
	textEnd := fcOf(ccp)
	pn := (textEnd + sectorSize - 1) / sectorSize
	pages := splitFKPs(paras)
	wordDoc := make([]byte, (pn+uint32(len(pages)))*sectorSize)
	le := binary.LittleEndian

	for i, u := range units {
		if opts.ANSI {
			b, ok := charmap.Windows1252.EncodeRune(rune(u))
			if !ok {
				b = '?'
			}
			wordDoc[fcText+uint32(i)] = b
		} else {
			le.PutUint16(wordDoc[fcText+uint32(i)*2:], u)
		}
	}

	// PlcBtePapx: one FC per page start plus the text end, then page numbers
	n := len(pages)
	plc := make([]byte, 8*n+4)
	cp := uint32(0)
	for i, page := range pages {
		le.PutUint32(plc[i*4:], fcOf(cp))
		le.PutUint32(plc[(n+1)*4+i*4:], pn+uint32(i))
		off := (pn + uint32(i)) * sectorSize
		cp = writeFKP(wordDoc[off:off+sectorSize], page, cp, fcOf)
	}
	le.PutUint32(plc[n*4:], textEnd)

	// FIB
	le.PutUint16(wordDoc[0:], 0xA5EC)
	le.PutUint16(wordDoc[2:], 0x00C1)
	var flags uint16
	if !opts.Table0 {
		flags |= 0x0200
	}
	if opts.Encrypted {
		flags |= 0x0100
	}
	le.PutUint16(wordDoc[fibFlags:], flags)
	le.PutUint16(wordDoc[32:], 14)  // csw
	le.PutUint16(wordDoc[62:], 22)  // cslw
	le.PutUint16(wordDoc[152:], 93) // cbRgFcLcb
	le.PutUint32(wordDoc[fibCcpText:], ccp)

	// Table stream: PlcBtePapx at 0, Clx after it
	table := append(plc, make([]byte, 21)...)
	clx := table[len(plc):]
	clx[0] = 0x02
	le.PutUint32(clx[1:], 16)
	le.PutUint32(clx[5:], 0)
	le.PutUint32(clx[9:], ccp)
	fc := uint32(fcText)
	if opts.ANSI {
		fc = fcText*2 | 0x40000000
	}
	le.PutUint32(clx[15:], fc) // Pcd.fc after 2 flag bytes

	le.PutUint32(wordDoc[fibPlcfBtePapx:], 0)
	le.PutUint32(wordDoc[fibPlcfBtePapx+4:], uint32(len(plc)))
	le.PutUint32(wordDoc[fibClx:], uint32(len(plc)))
	le.PutUint32(wordDoc[fibClx+4:], 21)

	tableName := "1Table"
	if opts.Table0 {
		tableName = "0Table"
	}
	return compoundFile(
		stream{name: "WordDocument", data: wordDoc},
		stream{name: tableName, data: table},
	)
}

// encodePapx returns the PapxInFkp bytes for grpprl with istd 0.
func encodePapx(grpprl []byte) []byte {
	data := append([]byte{0, 0}, grpprl...)
	if len(data)%2 == 1 {
		return append([]byte{byte((len(data) + 1) / 2)}, data...)
	}
	return append([]byte{0, byte(len(data) / 2)}, data...)
}

// splitFKPs groups paragraphs into runs that fit one FKP page each.
// Identical PAPXs within a page are stored once.
func splitFKPs(paras []paragraph) [][]paragraph {
	var pages [][]paragraph
	var cur []paragraph
	seen := map[string]bool{}
	used := 0 // PAPX bytes, each rounded up for alignment

	for _, p := range paras {
		papx := encodePapx(p.grpprl)
		extra := 0
		if !seen[string(papx)] {
			extra = len(papx) + 1
		}
		crun := len(cur) + 1
		if len(cur) > 0 && (crun > 0xFF || (crun+1)*4+crun*13+used+extra > 511) {
			pages = append(pages, cur)
			cur, seen, used = nil, map[string]bool{}, 0
			extra = len(papx) + 1
		}
		cur = append(cur, p)
		if !seen[string(papx)] {
			seen[string(papx)] = true
			used += extra
		}
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}

// writeFKP lays out one PAPX FKP page for paras starting at cp: FCs from
// the front, PAPXs from the back, run count in the last byte. It returns
// the CP after the last paragraph.
func writeFKP(page []byte, paras []paragraph, cp uint32, fcOf func(uint32) uint32) uint32 {
	le := binary.LittleEndian
	crun := len(paras)
	page[511] = byte(crun)

	bxStart := (crun + 1) * 4
	top := 511
	offsets := map[string]int{}
	for i, p := range paras {
		le.PutUint32(page[i*4:], fcOf(cp))
		cp += uint32(len(p.units))

		papx := encodePapx(p.grpprl)
		off, ok := offsets[string(papx)]
		if !ok {
			off = (top - len(papx)) &^ 1
			if off < bxStart+crun*13 {
				panic("testdocs: PAPX data overflows the FKP")
			}
			copy(page[off:], papx)
			offsets[string(papx)] = off
			top = off
		}
		page[bxStart+i*13] = byte(off / 2)
	}
	le.PutUint32(page[crun*4:], fcOf(cp))
	return cp
}

var (
	sprmInTable = []byte{0x16, 0x24, 0x01}
	sprmTtp     = []byte{0x17, 0x24, 0x01}
)

func encodeUnits(text string) []uint16 {
	return utf16.Encode([]rune(text))
}

func plainParagraph(text string) paragraph {
	return paragraph{units: append(encodeUnits(text), 0x0D)}
}

// rawParagraphs splits text on the paragraph mark characters and gives
// every paragraph empty properties.
func rawParagraphs(text string) []paragraph {
	var paras []paragraph
	var cur []uint16
	for _, u := range encodeUnits(text) {
		cur = append(cur, u)
		if u == 0x0D || u == 0x07 {
			paras = append(paras, paragraph{units: cur})
			cur = nil
		}
	}
	if len(cur) > 0 {
		paras = append(paras, paragraph{units: append(cur, 0x0D)})
	}
	return paras
}

// tableParagraphs writes each row as its cells (inner paragraphs end with
// 0x0D, the last one with the 0x07 cell mark) followed by the row-end TTP
// paragraph that carries the row's sprmTDefTable.
func tableParagraphs(t Table) []paragraph {
	var paras []paragraph
	for _, row := range t {
		for _, c := range row {
			lines := splitLines(c.Text)
			for i, line := range lines {
				mark := uint16(0x0D)
				if i == len(lines)-1 {
					mark = 0x07
				}
				paras = append(paras, paragraph{
					units:  append(encodeUnits(line), mark),
					grpprl: sprmInTable,
				})
			}
		}
		grpprl := append(append([]byte{}, sprmInTable...), sprmTtp...)
		grpprl = append(grpprl, tDefTable(row)...)
		paras = append(paras, paragraph{units: []uint16{0x07}, grpprl: grpprl})
	}
	return paras
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// tDefTable encodes sprmTDefTable for one row: boundaries every cellWidth
// twips per grid column, and TC80 entries carrying vertical merge flags.
func tDefTable(row []Cell) []byte {
	le := binary.LittleEndian
	n := len(row)
	remainder := 1 + 2*(n+1) + 20*n

	op := make([]byte, 2+2+remainder)
	le.PutUint16(op[0:], 0xD608)
	le.PutUint16(op[2:], uint16(remainder+1))
	op[4] = byte(n)

	x := 0
	centers := op[5:]
	tcs := op[5+2*(n+1):]
	for i, c := range row {
		le.PutUint16(centers[i*2:], uint16(x))
		x += span(c) * cellWidth

		var tcgrf uint16
		switch c.VMerge {
		case model.VMergeRestart:
			tcgrf = 3 << 5
		case model.VMergeContinue:
			tcgrf = 1 << 5
		}
		le.PutUint16(tcs[i*20:], tcgrf)
		le.PutUint16(tcs[i*20+2:], uint16(span(c)*cellWidth))
	}
	le.PutUint16(centers[n*2:], uint16(x))
	return op
}
