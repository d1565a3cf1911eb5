package wordtables

import (
	"log/slog"

	"github.com/tsawler/wordtables/transfer"
)

// parseOptions holds the configuration of a Parser.
type parseOptions struct {
	strategy transfer.Strategy
	visitor  transfer.Visitor
	logger   *slog.Logger // nil means slog.Default() at parse time
}

// defaultOptions returns the default parse options.
func defaultOptions() parseOptions {
	return parseOptions{
		strategy: nil, // cell values are the raw text
		visitor:  nil, // no grid walk
		logger:   nil,
	}
}

// clone copies the options. Strategies and visitors are shared.
func (o parseOptions) clone() parseOptions {
	return parseOptions{
		strategy: o.strategy,
		visitor:  o.visitor,
		logger:   o.logger,
	}
}

func (o parseOptions) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// context builds the per-call transfer context.
func (o parseOptions) context() *transfer.Context {
	return transfer.NewContext().
		WithStrategy(o.strategy).
		WithVisitor(o.visitor)
}
