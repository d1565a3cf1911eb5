package testdocs

import (
	"encoding/binary"
	"sort"
	"strings"
	"unicode/utf16"
)

const (
	sectorSize = 512
	minStream  = 4096 // streams at or above the mini stream cutoff use regular sectors

	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	noStream   = 0xFFFFFFFF
)

type stream struct {
	name string
	data []byte
}

// compoundFile writes a version 3 compound file holding the given streams
// in the root storage. Layout: header, one FAT sector, one directory
// sector, then each stream in contiguous sectors.
func compoundFile(streams ...stream) []byte {
	if len(streams) > 3 {
		panic("testdocs: at most 3 streams fit one directory sector")
	}

	// Siblings must be ordered by name length, then case-insensitive name
	sort.Slice(streams, func(i, j int) bool {
		a, b := streams[i].name, streams[j].name
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return strings.ToUpper(a) < strings.ToUpper(b)
	})

	for i := range streams {
		streams[i].data = padStream(streams[i].data)
	}

	total := 2
	for _, s := range streams {
		total += len(s.data) / sectorSize
	}
	if total > sectorSize/4 {
		panic("testdocs: fixture exceeds one FAT sector")
	}

	out := make([]byte, sectorSize*(1+total))
	le := binary.LittleEndian

	// Header
	copy(out, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(out[24:], 0x003E) // minor version
	le.PutUint16(out[26:], 0x0003) // major version
	le.PutUint16(out[28:], 0xFFFE) // byte order
	le.PutUint16(out[30:], 9)      // sector shift
	le.PutUint16(out[32:], 6)      // mini sector shift
	le.PutUint32(out[44:], 1)      // FAT sectors
	le.PutUint32(out[48:], 1)      // first directory sector
	le.PutUint32(out[56:], minStream)
	le.PutUint32(out[60:], endOfChain) // first mini FAT sector
	le.PutUint32(out[68:], endOfChain) // first DIFAT sector
	le.PutUint32(out[76:], 0)          // DIFAT[0]: FAT lives in sector 0
	for i := 1; i < 109; i++ {
		le.PutUint32(out[76+i*4:], freeSect)
	}

	// FAT
	fat := out[sectorSize : 2*sectorSize]
	for i := 0; i < sectorSize/4; i++ {
		le.PutUint32(fat[i*4:], freeSect)
	}
	le.PutUint32(fat[0:], fatSect)
	le.PutUint32(fat[4:], endOfChain)

	// Directory
	dir := out[2*sectorSize : 3*sectorSize]
	for i := 0; i < 4; i++ {
		entry := dir[i*128 : (i+1)*128]
		le.PutUint32(entry[68:], noStream)
		le.PutUint32(entry[72:], noStream)
		le.PutUint32(entry[76:], noStream)
	}
	root := dir[0:128]
	writeEntryName(root, "Root Entry")
	root[66] = 5 // root storage
	root[67] = 1 // black
	le.PutUint32(root[116:], endOfChain)
	if len(streams) > 0 {
		le.PutUint32(root[76:], 1)
	}

	sector := uint32(2)
	for i, s := range streams {
		entry := dir[(i+1)*128 : (i+2)*128]
		writeEntryName(entry, s.name)
		entry[66] = 2 // stream
		entry[67] = 1
		if i+1 < len(streams) {
			le.PutUint32(entry[72:], uint32(i+2)) // right sibling
		}
		le.PutUint32(entry[116:], sector)
		le.PutUint32(entry[120:], uint32(len(s.data)))

		n := uint32(len(s.data) / sectorSize)
		for k := uint32(0); k < n; k++ {
			next := sector + k + 1
			if k == n-1 {
				next = endOfChain
			}
			le.PutUint32(fat[(sector+k)*4:], next)
		}
		copy(out[(sector+1)*sectorSize:], s.data)
		sector += n
	}

	return out
}

func writeEntryName(entry []byte, name string) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(entry[i*2:], u)
	}
	binary.LittleEndian.PutUint16(entry[64:], uint16((len(units)+1)*2))
}

// padStream pads data to whole sectors and to at least the mini stream
// cutoff.
func padStream(data []byte) []byte {
	n := len(data)
	if n < minStream {
		n = minStream
	}
	if r := n % sectorSize; r != 0 {
		n += sectorSize - r
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}
