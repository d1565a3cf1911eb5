package doc

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	pageSize = 512
	pnMask   = 0x3FFFFF
)

// papxRun is the paragraph property run covering [fcStart, fcEnd).
type papxRun struct {
	fcStart, fcEnd uint32
	grpprl         []byte
}

// papxIndex is sorted by fcStart.
type papxIndex []papxRun

// parsePapx reads the PlcBtePapx and every PAPX FKP page it points at.
func parsePapx(wordDoc, table []byte, fc, lcb uint32) (papxIndex, error) {
	le := binary.LittleEndian
	if lcb < 12 || uint64(fc)+uint64(lcb) > uint64(len(table)) {
		return nil, fmt.Errorf("PlcBtePapx out of range (fc=%d lcb=%d)", fc, lcb)
	}
	plc := table[fc : fc+lcb]
	n := (int(lcb) - 4) / 8

	var idx papxIndex
	for i := 0; i < n; i++ {
		pn := le.Uint32(plc[(n+1)*4+i*4:]) & pnMask
		start := uint64(pn) * pageSize
		if start+pageSize > uint64(len(wordDoc)) {
			return nil, fmt.Errorf("PAPX FKP page %d out of range", pn)
		}
		runs, err := parseFKP(wordDoc[start : start+pageSize])
		if err != nil {
			return nil, fmt.Errorf("PAPX FKP page %d: %w", pn, err)
		}
		idx = append(idx, runs...)
	}

	sort.SliceStable(idx, func(i, j int) bool { return idx[i].fcStart < idx[j].fcStart })
	return idx, nil
}

// parseFKP decodes one 512-byte PapxFkp page.
func parseFKP(page []byte) ([]papxRun, error) {
	le := binary.LittleEndian
	crun := int(page[pageSize-1])
	bx := (crun + 1) * 4
	if bx+crun*13 > pageSize-1 {
		return nil, fmt.Errorf("crun %d too large", crun)
	}

	runs := make([]papxRun, 0, crun)
	for i := 0; i < crun; i++ {
		r := papxRun{
			fcStart: le.Uint32(page[i*4:]),
			fcEnd:   le.Uint32(page[(i+1)*4:]),
		}
		if off := int(page[bx+i*13]) * 2; off > 0 {
			grpprl, ok := papxAt(page, off)
			if !ok {
				return nil, fmt.Errorf("PAPX %d out of range", i)
			}
			r.grpprl = grpprl
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// papxAt returns the grpprl of the PapxInFkp at off, dropping the istd.
func papxAt(page []byte, off int) ([]byte, bool) {
	if off >= pageSize-1 {
		return nil, false
	}
	var size int
	if cb := int(page[off]); cb != 0 {
		size = 2*cb - 1
		off++
	} else {
		if off+1 >= pageSize-1 {
			return nil, false
		}
		size = 2 * int(page[off+1])
		off += 2
	}
	if size < 2 || off+size > pageSize-1 {
		return nil, false
	}
	return page[off+2 : off+size], true
}

// lookup returns the grpprl of the run containing fc, or nil.
func (x papxIndex) lookup(fc uint32) []byte {
	i := sort.Search(len(x), func(i int) bool { return x[i].fcEnd > fc })
	if i < len(x) && x[i].fcStart <= fc {
		return x[i].grpprl
	}
	return nil
}
