package docx

import (
	"io"

	"github.com/tsawler/wordtables/format"
	"github.com/tsawler/wordtables/model"
	"github.com/tsawler/wordtables/transfer"
)

// Extractor extracts canonical tables from DOCX packages.
type Extractor struct{}

// Extract reads the package in ra and returns its top-level tables in
// document order, with ctx applied to each.
func (Extractor) Extract(ra io.ReaderAt, size int64, ctx *transfer.Context) ([]*model.Table, error) {
	r, err := NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	parsed := r.Tables()
	tables := make([]*model.Table, 0, len(parsed))
	for i := range parsed {
		t := parsed[i].ToModelTable(i)
		t.Format = format.DOCX
		ctx.Apply(t)
		tables = append(tables, t)
	}
	return tables, nil
}
