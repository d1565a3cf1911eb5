// Package doc extracts tables from Word 97-2003 binary documents.
package doc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/richardlehane/mscfb"
)

var (
	// ErrNotWordDocument is returned when the input is not a Word binary
	// document.
	ErrNotWordDocument = errors.New("not a Word binary document")
	// ErrEncrypted is returned for password protected documents.
	ErrEncrypted = errors.New("document is encrypted")
)

const streamWordDocument = "WordDocument"

// Reader provides access to the tables of a Word binary document.
type Reader struct {
	file    *os.File // set when the Reader opened the file itself
	fib     *fib
	wordDoc []byte
	table   []byte
	tables  []ParsedTable
}

// Open opens a DOC file for reading. The Reader must be closed.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads the compound file of the given size in ra. The caller
// keeps ownership of ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	streams, err := readStreams(ra, size)
	if err != nil {
		return nil, err
	}

	r := &Reader{wordDoc: streams[streamWordDocument]}
	if r.wordDoc == nil {
		return nil, fmt.Errorf("%w: no %s stream", ErrNotWordDocument, streamWordDocument)
	}

	if r.fib, err = parseFIB(r.wordDoc); err != nil {
		return nil, err
	}
	if r.fib.encrypted() {
		return nil, ErrEncrypted
	}

	name := r.fib.tableStream()
	if r.table = streams[name]; r.table == nil {
		return nil, fmt.Errorf("%w: no %s stream", ErrNotWordDocument, name)
	}

	if err := r.parse(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return r, nil
}

// Compound file header fields.
const (
	cfbHeaderSize     = 512
	cfbMajorVersion   = 0x1A
	cfbSectorShift    = 0x1E
	cfbDirSectors     = 0x28
	cfbFATSectors     = 0x2C
	cfbFirstDir       = 0x30
	cfbMiniFATSectors = 0x40
	cfbDIFATSectors   = 0x48
)

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// checkHeader rejects compound file headers whose sector counts cannot fit
// in size bytes. mscfb sizes its tables from these counts before reading.
func checkHeader(ra io.ReaderAt, size int64) error {
	if size < cfbHeaderSize {
		return fmt.Errorf("%w: %d bytes is too short", ErrNotWordDocument, size)
	}
	hdr := make([]byte, cfbHeaderSize)
	if _, err := ra.ReadAt(hdr, 0); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrNotWordDocument, err)
	}
	if string(hdr[:8]) != string(cfbSignature) {
		return fmt.Errorf("%w: bad signature", ErrNotWordDocument)
	}

	le := binary.LittleEndian
	major, shift := le.Uint16(hdr[cfbMajorVersion:]), le.Uint16(hdr[cfbSectorShift:])
	if !(major == 3 && shift == 9) && !(major == 4 && shift == 12) {
		return fmt.Errorf("%w: version %d with sector shift %d", ErrNotWordDocument, major, shift)
	}

	sectors := uint64(size) >> shift
	counts := []struct {
		name string
		off  int
	}{
		{"directory", cfbDirSectors},
		{"FAT", cfbFATSectors},
		{"mini FAT", cfbMiniFATSectors},
		{"DIFAT", cfbDIFATSectors},
	}
	for _, c := range counts {
		if n := le.Uint32(hdr[c.off:]); uint64(n) > sectors {
			return fmt.Errorf("%w: %d %s sectors in a %d byte file", ErrNotWordDocument, n, c.name, size)
		}
	}
	if dir := le.Uint32(hdr[cfbFirstDir:]); uint64(dir) >= sectors {
		return fmt.Errorf("%w: directory sector %d out of range", ErrNotWordDocument, dir)
	}
	return nil
}

// readStreams loads the top-level streams a Word document needs.
func readStreams(ra io.ReaderAt, size int64) (map[string][]byte, error) {
	if err := checkHeader(ra, size); err != nil {
		return nil, err
	}
	cf, err := mscfb.New(ra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWordDocument, err)
	}

	streams := make(map[string][]byte)
	for entry, err := cf.Next(); err == nil; entry, err = cf.Next() {
		if len(entry.Path) > 0 {
			continue // embedded objects
		}
		switch entry.Name {
		case streamWordDocument, "0Table", "1Table":
			if entry.Size > size {
				return nil, fmt.Errorf("%w: %s stream of %d bytes in a %d byte file", ErrNotWordDocument, entry.Name, entry.Size, size)
			}
			data, err := io.ReadAll(entry)
			if err != nil {
				return nil, fmt.Errorf("reading %s stream: %w", entry.Name, err)
			}
			streams[entry.Name] = data
		}
	}
	return streams, nil
}

func (r *Reader) parse() error {
	pieces, err := parsePieceTable(r.table, r.fib.fcClx, r.fib.lcbClx)
	if err != nil {
		return err
	}
	chars, err := mainText(r.wordDoc, pieces, r.fib.ccpText)
	if err != nil {
		return err
	}

	var papx papxIndex
	if r.fib.lcbPlcfBtePapx > 0 {
		if papx, err = parsePapx(r.wordDoc, r.table, r.fib.fcPlcfBtePapx, r.fib.lcbPlcfBtePapx); err != nil {
			return err
		}
	}

	r.tables = assembleTables(splitParagraphs(chars, papx))
	return nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Tables returns the top-level tables in document order.
func (r *Reader) Tables() []ParsedTable {
	return r.tables
}

// TableCount returns the number of top-level tables.
func (r *Reader) TableCount() int {
	return len(r.tables)
}
