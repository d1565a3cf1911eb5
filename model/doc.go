// Package model provides the canonical, format-neutral representation of
// tables extracted from word-processing documents.
//
// All extractors produce these types, making them the primary API for
// consuming extracted content.
//
// # Tables
//
// A [Table] is an ordered list of [Row] values, each an ordered list of
// [Cell] values in document order. Merged regions are stored compactly:
// a cell covering R rows and C columns is stored once, at its top-left
// corner, with RowSpan R and ColSpan C. The rows it covers below do not
// repeat it.
//
//	t := model.NewBuilder(0)
//	t.StartRow()
//	t.AddCell("Region", 2, model.VMergeNone)
//	t.EndRow()
//	table := t.Table()
//
// # Grid access
//
// Consumers that need the dense grid view use [Table.Walk], which expands
// merged regions lazily and hands the same *Cell to every coordinate it
// covers. [Table.CellAt] resolves a single coordinate and [Table.Grid]
// materializes the whole grid on demand.
//
// # Export
//
// Tables can be rendered with ToMarkdown(), ToCSV() and GetText().
package model
