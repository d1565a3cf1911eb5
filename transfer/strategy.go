package transfer

import (
	"strconv"
	"strings"

	"github.com/tsawler/wordtables/model"
)

// Strategy converts the raw text of one cell into the value stored on it.
// pos is the grid coordinate of the cell's top-left corner. A returned
// error is recorded on that cell only.
type Strategy interface {
	Transfer(pos model.Position, raw string) (any, error)
}

// StrategyFunc adapts an ordinary function to the Strategy interface.
type StrategyFunc func(pos model.Position, raw string) (any, error)

// Transfer calls f(pos, raw).
func (f StrategyFunc) Transfer(pos model.Position, raw string) (any, error) {
	return f(pos, raw)
}

var (
	// Raw stores the cell text unchanged. It is the identity strategy:
	// registering it gives the same cells as registering none, and it names
	// that choice where a Strategy value is required, such as a strategy
	// picked from a table of options.
	Raw Strategy = StrategyFunc(func(_ model.Position, raw string) (any, error) {
		return raw, nil
	})

	// TrimSpace stores the cell text without leading and trailing white space.
	TrimSpace Strategy = StrategyFunc(func(_ model.Position, raw string) (any, error) {
		return strings.TrimSpace(raw), nil
	})

	// Uppercase stores the cell text in upper case.
	Uppercase Strategy = StrategyFunc(func(_ model.Position, raw string) (any, error) {
		return strings.ToUpper(raw), nil
	})

	// Typed stores an int64, a float64, or a bool for "true"/"false" in any
	// case, and the trimmed text otherwise.
	Typed Strategy = StrategyFunc(typed)
)

func typed(_ model.Position, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return s, nil
}

// Chain applies strategies left to right. Each strategy after the first
// receives the string form of the previous value; a non-string
// intermediate value ends the chain and becomes the result. The chain
// stops at the first error.
func Chain(strategies ...Strategy) Strategy {
	return StrategyFunc(func(pos model.Position, raw string) (any, error) {
		var v any = raw
		for _, s := range strategies {
			text, ok := v.(string)
			if !ok {
				return v, nil
			}
			out, err := s.Transfer(pos, text)
			if err != nil {
				return nil, err
			}
			v = out
		}
		return v, nil
	})
}
