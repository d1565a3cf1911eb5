// Package format provides document type resolution for the wordtables library.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported word-processing container format.
type Format int

const (
	// Unknown indicates an unrecognized format. It is never a valid
	// extraction input.
	Unknown Format = iota
	// DOC indicates a legacy binary Word 97-2003 (.doc) compound file.
	DOC
	// DOCX indicates an Office Open XML (.docx) package.
	DOCX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOC:
		return "DOC"
	case DOCX:
		return "DOCX"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOC:
		return ".doc"
	case DOCX:
		return ".docx"
	default:
		return ""
	}
}

// Valid reports whether f names a format that has an extractor.
func (f Format) Valid() bool {
	return f == DOC || f == DOCX
}

// Detect determines the format from the filename extension, ignoring case.
// Content is never inspected.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".doc":
		return DOC
	default:
		return Unknown
	}
}
