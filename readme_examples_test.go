package wordtables_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tsawler/wordtables"
	"github.com/tsawler/wordtables/format"
	"github.com/tsawler/wordtables/model"
	"github.com/tsawler/wordtables/transfer"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files.

func Example_parseFile() {
	// Works with both DOC and DOCX files
	tables, err := wordtables.New().ParseFile("report.docx")
	// tables, err := wordtables.New().ParseFile("legacy.doc")
	if err != nil {
		log.Fatal(err)
	}

	for _, t := range tables {
		fmt.Printf("Table %d: %d rows x %d columns\n", t.Index, t.RowCount(), t.ColCount())
		fmt.Println(t.ToMarkdown())
	}
}

func Example_transferStrategy() {
	tables, err := wordtables.New().
		WithTransferStrategy(transfer.Chain(transfer.TrimSpace, transfer.Typed)).
		ParseFile("prices.doc")
	if err != nil {
		log.Fatal(err)
	}

	for _, row := range tables[0].Rows {
		for _, cell := range row.Cells {
			if cell.Err != nil {
				fmt.Println("bad cell:", cell.Err)
				continue
			}
			fmt.Printf("%T %v\n", cell.Value, cell.Value)
		}
	}
}

func Example_memoryMappingVisitor() {
	// Copy every grid coordinate into a dense sheet. Merged cells appear
	// at each coordinate they cover.
	sheet := map[model.Position]any{}
	visitor := transfer.VisitorFunc(func(pos model.Position, cell *model.Cell) {
		sheet[pos] = cell.Value
	})

	_, err := wordtables.New().
		WithMemoryMappingVisitor(visitor).
		ParseFile("schedule.docx")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(sheet), "coordinates")
}

func Example_parseReader() {
	data, err := os.ReadFile("upload.bin")
	if err != nil {
		log.Fatal(err)
	}

	// The caller names the format; content is never sniffed
	tables, err := wordtables.New().Parse(bytes.NewReader(data), format.DOC)
	if err != nil {
		log.Fatal(err)
	}
	_ = tables
}

func Example_errors() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	_, err := wordtables.New().WithLogger(logger).ParseFile("archive.doc")
	switch {
	case errors.Is(err, wordtables.ErrNotFound):
		fmt.Println("no such file")
	case errors.Is(err, wordtables.ErrUnsupportedFormat):
		fmt.Println("not a Word document")
	case errors.Is(err, wordtables.ErrExtraction):
		var ee *wordtables.ExtractionError
		if errors.As(err, &ee) {
			fmt.Println("could not read", ee.Path, "as", ee.Format)
		}
	}
}

func Example_exports() {
	tables := wordtables.Must(wordtables.New().ParseFile("report.docx"))

	for _, t := range tables {
		fmt.Println(t.ToCSV())
		fmt.Println(t.GetText())
	}
}
