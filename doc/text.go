package doc

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

const (
	fcCompressed = 0x40000000
	fcMask       = 0x3FFFFFFF
)

// piece maps a run of character positions to the WordDocument stream.
type piece struct {
	cpStart, cpEnd uint32
	fc             uint32 // byte offset of cpStart
	compressed     bool   // 8-bit CP1252 text instead of UTF-16LE
}

// parsePieceTable reads the PlcPcd out of the CLX in the table stream.
func parsePieceTable(table []byte, fcClx, lcbClx uint32) ([]piece, error) {
	le := binary.LittleEndian
	if lcbClx == 0 || uint64(fcClx)+uint64(lcbClx) > uint64(len(table)) {
		return nil, fmt.Errorf("CLX out of range (fc=%d lcb=%d, table stream %d bytes)", fcClx, lcbClx, len(table))
	}
	clx := table[fcClx : fcClx+lcbClx]

	// Skip Prc entries (0x01) to reach the Pcdt (0x02)
	pos := 0
	for pos < len(clx) && clx[pos] == 0x01 {
		if pos+3 > len(clx) {
			return nil, fmt.Errorf("truncated Prc in CLX")
		}
		pos += 3 + int(le.Uint16(clx[pos+1:]))
	}
	if pos+5 > len(clx) || clx[pos] != 0x02 {
		return nil, fmt.Errorf("piece table not found in CLX")
	}
	lcb := int(le.Uint32(clx[pos+1:]))
	pos += 5
	if lcb < 16 || pos+lcb > len(clx) {
		return nil, fmt.Errorf("PlcPcd size %d out of range", lcb)
	}
	plc := clx[pos : pos+lcb]

	// (n+1) CPs followed by n 8-byte PCDs
	n := (lcb - 4) / 12
	pieces := make([]piece, 0, n)
	pcds := (n + 1) * 4
	for i := 0; i < n; i++ {
		raw := le.Uint32(plc[pcds+i*8+2:])
		p := piece{
			cpStart:    le.Uint32(plc[i*4:]),
			cpEnd:      le.Uint32(plc[(i+1)*4:]),
			compressed: raw&fcCompressed != 0,
		}
		p.fc = raw & fcMask
		if p.compressed {
			p.fc /= 2
		}
		if p.cpEnd < p.cpStart {
			return nil, fmt.Errorf("piece %d has decreasing CPs", i)
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

// char is one UTF-16 code unit of main text and its stream offset.
type char struct {
	unit uint16
	fc   uint32
}

// mainText returns the code units of the main document story, CP 0 up to
// ccpText, with the file offset of each.
func mainText(wordDoc []byte, pieces []piece, ccpText uint32) ([]char, error) {
	le := binary.LittleEndian
	n := uint64(ccpText)
	if n > uint64(len(wordDoc)) {
		n = uint64(len(wordDoc))
	}
	chars := make([]char, 0, n)

	for i, p := range pieces {
		if p.cpStart >= ccpText {
			break
		}
		end := p.cpEnd
		if end > ccpText {
			end = ccpText
		}
		count := end - p.cpStart

		size := uint64(2)
		if p.compressed {
			size = 1
		}
		if uint64(p.fc)+uint64(count)*size > uint64(len(wordDoc)) {
			return nil, fmt.Errorf("piece %d out of range of the WordDocument stream", i)
		}

		for k := uint32(0); k < count; k++ {
			if p.compressed {
				fc := p.fc + k
				r := charmap.Windows1252.DecodeByte(wordDoc[fc])
				chars = append(chars, char{unit: uint16(r), fc: fc})
			} else {
				fc := p.fc + 2*k
				chars = append(chars, char{unit: le.Uint16(wordDoc[fc:]), fc: fc})
			}
		}
	}
	return chars, nil
}
