package doc

import (
	"io"

	"github.com/tsawler/wordtables/format"
	"github.com/tsawler/wordtables/model"
	"github.com/tsawler/wordtables/transfer"
)

// Extractor extracts canonical tables from Word binary documents.
type Extractor struct{}

// Extract reads the compound file in ra and returns its top-level tables
// in document order, with ctx applied to each.
func (Extractor) Extract(ra io.ReaderAt, size int64, ctx *transfer.Context) ([]*model.Table, error) {
	r, err := NewReader(io.NewSectionReader(ra, 0, size), size)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	parsed := r.Tables()
	tables := make([]*model.Table, 0, len(parsed))
	for i := range parsed {
		t := parsed[i].ToModelTable(i)
		t.Format = format.DOC
		ctx.Apply(t)
		tables = append(tables, t)
	}
	return tables, nil
}
