package transfer

import "github.com/tsawler/wordtables/model"

// Visitor is called once per resolved grid coordinate of a table. For a
// merged cell covering R rows and C columns it is called R*C times with the
// same cell and a different pos each time. cell points into the table being
// returned to the caller and should be treated as read-only.
type Visitor interface {
	Visit(pos model.Position, cell *model.Cell)
}

// VisitorFunc adapts an ordinary function to the Visitor interface.
type VisitorFunc func(pos model.Position, cell *model.Cell)

// Visit calls f(pos, cell).
func (f VisitorFunc) Visit(pos model.Position, cell *model.Cell) {
	f(pos, cell)
}
