// Package wordtables extracts tables from Word documents, both the binary
// Word 97-2003 format (.doc) and Office Open XML (.docx), into one
// canonical table model.
//
// Basic usage:
//
//	tables, err := wordtables.New().ParseFile("report.docx")
//	if err != nil {
//	    // handle error
//	}
//	for _, t := range tables {
//	    fmt.Println(t.ToMarkdown())
//	}
//
// With a transfer strategy and a visitor:
//
//	tables, err := wordtables.New().
//	    WithTransferStrategy(transfer.Typed).
//	    WithMemoryMappingVisitor(transfer.VisitorFunc(func(pos model.Position, c *model.Cell) {
//	        sheet[pos.Row][pos.Col] = c.Value
//	    })).
//	    ParseFile("legacy.doc")
//
// The doc and docx packages can be used directly for lower level access.
package wordtables

// New returns a Parser with no strategy, no visitor and the default
// logger.
//
// Example:
//
//	tables, err := wordtables.New().ParseFile("document.doc")
func New() *Parser {
	return &Parser{options: defaultOptions()}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	tables := wordtables.Must(wordtables.New().ParseFile("document.docx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
