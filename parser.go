package wordtables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tsawler/wordtables/doc"
	"github.com/tsawler/wordtables/docx"
	"github.com/tsawler/wordtables/format"
	"github.com/tsawler/wordtables/model"
	"github.com/tsawler/wordtables/transfer"
)

// Parser provides a fluent interface for extracting tables from DOC and
// DOCX files. Each configuration method returns a new Parser, so a Parser
// is safe for concurrent use and can be shared.
type Parser struct {
	options parseOptions
}

// extractor is implemented by doc.Extractor and docx.Extractor.
type extractor interface {
	Extract(ra io.ReaderAt, size int64, ctx *transfer.Context) ([]*model.Table, error)
}

// extractorFor selects the extractor for a format.
func extractorFor(f format.Format) (extractor, error) {
	switch f {
	case format.DOC:
		return doc.Extractor{}, nil
	case format.DOCX:
		return docx.Extractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

func (p *Parser) clone() *Parser {
	return &Parser{options: p.options.clone()}
}

// ============================================================================
// Configuration Methods (return new Parser instance)
// ============================================================================

// WithTransferStrategy sets the strategy that converts each cell's raw text
// into its Value. A later call replaces an earlier one; nil restores raw
// values.
//
// Example:
//
//	tables, err := wordtables.New().WithTransferStrategy(transfer.TrimSpace).ParseFile("a.doc")
func (p *Parser) WithTransferStrategy(s transfer.Strategy) *Parser {
	n := p.clone()
	n.options.strategy = s
	return n
}

// WithMemoryMappingVisitor sets the visitor called once for every grid
// coordinate of every table, in row-major order. Cells of a merged region
// are reported at each coordinate they cover.
func (p *Parser) WithMemoryMappingVisitor(v transfer.Visitor) *Parser {
	n := p.clone()
	n.options.visitor = v
	return n
}

// WithLogger sets the logger for parse diagnostics. nil means
// slog.Default().
func (p *Parser) WithLogger(l *slog.Logger) *Parser {
	n := p.clone()
	n.options.logger = l
	return n
}

// ============================================================================
// Terminal Operations
// ============================================================================

// ParseFile extracts the tables of the file at path. The format is chosen
// by the file extension. A missing path fails with ErrNotFound and an
// unknown extension with ErrUnsupportedFormat, both before the file is
// opened. Any failure while reading the document is an *ExtractionError.
//
// A document without tables returns an empty, non-nil slice.
func (p *Parser) ParseFile(path string) ([]*model.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}

	f := format.Detect(path)
	ex, err := extractorFor(f)
	if err != nil {
		return nil, fmt.Errorf("%w (extension %q)", err, filepath.Ext(path))
	}

	log := p.logger(f, path)
	file, err := os.Open(path)
	if err != nil {
		return nil, p.fail(log, f, path, err)
	}
	defer file.Close()

	return p.extract(log, ex, file, info.Size(), f, path)
}

// Parse extracts the tables of a document of format t read from r. Readers
// with random access (io.ReaderAt with a Size method, or a regular
// *os.File) are read in place from offset 0; other readers are read fully
// into memory first.
func (p *Parser) Parse(r io.Reader, t format.Format) ([]*model.Table, error) {
	ex, err := extractorFor(t)
	if err != nil {
		return nil, err
	}

	log := p.logger(t, "")
	if r == nil {
		return nil, p.fail(log, t, "", errors.New("nil reader"))
	}
	ra, size, err := readerAt(r)
	if err != nil {
		return nil, p.fail(log, t, "", err)
	}
	return p.extract(log, ex, ra, size, t, "")
}

func (p *Parser) logger(f format.Format, path string) *slog.Logger {
	log := p.options.log().With(
		slog.String("parse_id", uuid.NewString()),
		slog.String("format", f.String()))
	if path != "" {
		log = log.With(slog.String("path", path))
	}
	return log
}

func (p *Parser) extract(log *slog.Logger, ex extractor, ra io.ReaderAt, size int64, f format.Format, path string) (tables []*model.Table, err error) {
	log.Debug("Extracting tables", slog.Int64("size", size))

	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = p.fail(log, f, path, fmt.Errorf("panic: %v", r))
		}
	}()

	tables, err = ex.Extract(ra, size, p.options.context())
	if err != nil {
		return nil, p.fail(log, f, path, err)
	}
	if tables == nil {
		tables = []*model.Table{}
	}

	log.Debug("Extracted tables", slog.Int("tables", len(tables)))
	return tables, nil
}

func (p *Parser) fail(log *slog.Logger, f format.Format, path string, err error) error {
	log.Error("Table extraction failed", slog.String("error", err.Error()))
	return NewExtractionError(f, path, err)
}

// sizedReaderAt is satisfied by *bytes.Reader, *strings.Reader and
// *io.SectionReader.
type sizedReaderAt interface {
	io.ReaderAt
	Size() int64
}

func readerAt(r io.Reader) (io.ReaderAt, int64, error) {
	switch v := r.(type) {
	case sizedReaderAt:
		return v, v.Size(), nil
	case *os.File:
		if info, err := v.Stat(); err == nil && info.Mode().IsRegular() {
			return v, info.Size(), nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("reading input: %w", err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
