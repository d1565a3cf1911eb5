// Package transfer holds the hooks that shape extraction: a Strategy that
// converts raw cell text into the value stored on each cell, and a Visitor
// that is called once per grid coordinate of every extracted table.
//
// A [Context] carries at most one of each. Extractors receive it from the
// dispatcher and call [Context.Apply] on every assembled table:
//
//	ctx := transfer.NewContext().
//	    WithStrategy(transfer.TrimSpace).
//	    WithVisitor(transfer.VisitorFunc(func(pos model.Position, c *model.Cell) {
//	        fmt.Println(pos, c.Value)
//	    }))
//
// Without a strategy each cell's Value is its raw text. [Raw] is the same
// behavior as an explicit Strategy value.
//
// Strategies must be pure. They may be reused across tables, documents and
// goroutines.
package transfer
