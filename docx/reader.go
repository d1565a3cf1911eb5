// Package docx extracts tables from DOCX (Office Open XML) packages.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	defaultMainPart   = "word/document.xml"
	officeDocumentRel = "/officeDocument"
)

// Reader provides access to the tables of a DOCX package.
type Reader struct {
	zipCloser *zip.ReadCloser // set when the Reader opened the file itself
	zipReader *zip.Reader
	mainPart  string
	tables    []tableXML
}

// Open opens a DOCX file for reading. The Reader must be closed.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.zipCloser = zr
	return r, nil
}

// NewReader reads a DOCX package from ra, which holds size bytes. The
// caller keeps ownership of ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zipReader: zr,
		mainPart:  defaultMainPart,
	}

	// Relationships first: they name the main document part
	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipCloser != nil {
		err := r.zipCloser.Close()
		r.zipCloser = nil
		return err
	}
	return nil
}

// validate checks that required DOCX parts exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		r.mainPart,
	}

	for _, name := range required {
		if r.getFile(name) == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships resolves the main document part from the package
// relationships. A package without them falls back to word/document.xml.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("_rels/.rels")
	if err != nil {
		// Relationships file is optional
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}

	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, officeDocumentRel) && rel.Target != "" {
			r.mainPart = path.Clean(strings.TrimPrefix(rel.Target, "/"))
			break
		}
	}
	return nil
}

// parseDocument streams the main part and collects the top-level tables in
// document order. A table is top-level when its parent is the body, a
// block-level content control, or a custom XML element.
func (r *Reader) parseDocument() error {
	f := r.getFile(r.mainPart)
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var stack []string
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding %s: %w", r.mainPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !sawRoot {
				if el.Name.Local != "document" {
					return fmt.Errorf("unexpected root element <%s> in %s", el.Name.Local, r.mainPart)
				}
				sawRoot = true
			}
			if el.Name.Local == "tbl" && isBlockContainer(stack) {
				var tbl tableXML
				if err := dec.DecodeElement(&tbl, &el); err != nil {
					return fmt.Errorf("decoding table %d: %w", len(r.tables), err)
				}
				r.tables = append(r.tables, tbl)
				continue
			}
			stack = append(stack, el.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawRoot {
		return fmt.Errorf("%s is empty", r.mainPart)
	}
	return nil
}

// isBlockContainer reports whether the innermost open element may hold
// top-level tables.
func isBlockContainer(stack []string) bool {
	if len(stack) == 0 {
		return false
	}
	switch stack[len(stack)-1] {
	case "body", "sdtContent", "customXml":
		return true
	}
	return false
}

// Tables returns the parsed top-level tables in document order.
func (r *Reader) Tables() []ParsedTable {
	tp := NewTableParser()
	tables := make([]ParsedTable, 0, len(r.tables))
	for _, tbl := range r.tables {
		tables = append(tables, tp.ParseTable(tbl))
	}
	return tables
}

// TableCount returns the number of top-level tables.
func (r *Reader) TableCount() int {
	return len(r.tables)
}
