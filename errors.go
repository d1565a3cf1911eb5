package wordtables

import (
	"errors"
	"fmt"

	"github.com/tsawler/wordtables/format"
)

// ErrNotFound indicates the input path does not exist or is not a regular
// file.
var ErrNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the input is neither a DOC nor a DOCX
// document.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrExtraction matches every *ExtractionError.
var ErrExtraction = errors.New("table extraction failed")

// ExtractionError represents a failure while reading a document's tables.
type ExtractionError struct {
	Format format.Format
	Path   string // empty for Parse
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("extraction error (%s): %v", e.Format, e.Err)
	}
	return fmt.Sprintf("extraction error in %q (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrExtraction.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(f format.Format, path string, err error) *ExtractionError {
	return &ExtractionError{
		Format: f,
		Path:   path,
		Err:    err,
	}
}
