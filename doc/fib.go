package doc

import (
	"encoding/binary"
	"fmt"
)

const (
	wIdentWord = 0xA5EC

	flagEncrypted   = 0x0100
	flagWhichTblStm = 0x0200

	// Indices into FibRgFcLcb97
	fcLcbPlcfBtePapx = 13
	fcLcbClx         = 33
)

// fib holds the File Information Block fields needed to locate tables.
type fib struct {
	ident   uint16
	nFib    uint16
	flags   uint16
	ccpText uint32

	fcPlcfBtePapx, lcbPlcfBtePapx uint32
	fcClx, lcbClx                 uint32
}

// parseFIB reads the FIB at the start of the WordDocument stream. Offsets
// of the variable-length parts are derived from their declared counts.
func parseFIB(b []byte) (*fib, error) {
	le := binary.LittleEndian
	if len(b) < 34 {
		return nil, fmt.Errorf("%w: FIB truncated", ErrNotWordDocument)
	}

	f := &fib{
		ident: le.Uint16(b[0:]),
		nFib:  le.Uint16(b[2:]),
		flags: le.Uint16(b[0x0A:]),
	}
	if f.ident != wIdentWord {
		return nil, fmt.Errorf("%w: bad wIdent 0x%04X", ErrNotWordDocument, f.ident)
	}

	// FibBase (32) | csw | fibRgW | cslw | fibRgLw | cbRgFcLcb | fibRgFcLcb
	pos := 32
	csw := int(le.Uint16(b[pos:]))
	pos += 2 + csw*2
	if pos+2 > len(b) {
		return nil, fmt.Errorf("%w: FIB truncated in fibRgW", ErrNotWordDocument)
	}
	cslw := int(le.Uint16(b[pos:]))
	pos += 2
	rgLw := pos
	pos += cslw * 4
	if cslw < 4 || pos+2 > len(b) {
		return nil, fmt.Errorf("%w: FIB truncated in fibRgLw", ErrNotWordDocument)
	}
	f.ccpText = le.Uint32(b[rgLw+12:])

	cbRgFcLcb := int(le.Uint16(b[pos:]))
	pos += 2
	if cbRgFcLcb <= fcLcbClx || pos+(fcLcbClx+1)*8 > len(b) {
		return nil, fmt.Errorf("%w: FIB truncated in fibRgFcLcb", ErrNotWordDocument)
	}
	pair := func(i int) (uint32, uint32) {
		o := pos + i*8
		return le.Uint32(b[o:]), le.Uint32(b[o+4:])
	}
	f.fcPlcfBtePapx, f.lcbPlcfBtePapx = pair(fcLcbPlcfBtePapx)
	f.fcClx, f.lcbClx = pair(fcLcbClx)

	return f, nil
}

func (f *fib) encrypted() bool {
	return f.flags&flagEncrypted != 0
}

// tableStream names the stream that holds the piece table and PLCs.
func (f *fib) tableStream() string {
	if f.flags&flagWhichTblStm != 0 {
		return "1Table"
	}
	return "0Table"
}
