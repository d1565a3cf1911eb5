package transfer

import (
	"fmt"

	"github.com/tsawler/wordtables/model"
)

// Context aggregates the optional Strategy and Visitor for one parse call.
// Configuration methods return a modified copy; the zero value and
// NewContext() both mean "raw values, no visits".
//
// A Context is built once per parse and handed to exactly one extractor.
type Context struct {
	strategy Strategy
	visitor  Visitor
}

// NewContext returns a Context with no hooks registered.
func NewContext() *Context {
	return &Context{}
}

// WithStrategy returns a copy of c using s. A later call replaces an
// earlier one; nil clears it.
func (c *Context) WithStrategy(s Strategy) *Context {
	n := c.clone()
	n.strategy = s
	return n
}

// WithVisitor returns a copy of c using v. A later call replaces an
// earlier one; nil clears it.
func (c *Context) WithVisitor(v Visitor) *Context {
	n := c.clone()
	n.visitor = v
	return n
}

// Strategy returns the registered strategy, or nil.
func (c *Context) Strategy() Strategy {
	if c == nil {
		return nil
	}
	return c.strategy
}

// Visitor returns the registered visitor, or nil.
func (c *Context) Visitor() Visitor {
	if c == nil {
		return nil
	}
	return c.visitor
}

func (c *Context) clone() *Context {
	if c == nil {
		return &Context{}
	}
	n := *c
	return &n
}

// TransferCell converts one raw cell value. Without a strategy the raw
// text is returned unchanged. A panicking strategy is reported as an error.
func (c *Context) TransferCell(pos model.Position, raw string) (v any, err error) {
	s := c.Strategy()
	if s == nil {
		return raw, nil
	}
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("transfer strategy panic at %s: %v", pos, r)
		}
	}()
	return s.Transfer(pos, raw)
}

// Apply fills Value and Err of every stored cell of t, then, if a visitor
// is registered, walks t once per grid coordinate. Strategy failures stay
// on the affected cell and never abort the table.
func (c *Context) Apply(t *model.Table) {
	for i := range t.Rows {
		cells := t.Rows[i].Cells
		for j := range cells {
			cell := &cells[j]
			pos := model.Position{Table: t.Index, Row: i, Col: cell.Col}
			cell.Value, cell.Err = c.TransferCell(pos, cell.Text)
		}
	}

	v := c.Visitor()
	if v == nil {
		return
	}
	_ = t.Walk(func(pos model.Position, cell *model.Cell) error {
		v.Visit(pos, cell)
		return nil
	})
}
