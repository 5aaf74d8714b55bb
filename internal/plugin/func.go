package plugin

import (
	"context"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Func builds a Calculator from a typed parameter struct P and a pure
// function over it. The struct's json tags declare the calculator's named
// parameters; its validate tags declare value constraints.
func Func[P any](meta score.Metadata, fn func(P) (score.Result, error)) ports.Calculator {
	return &funcCalculator[P]{meta: meta.Clone(), fn: fn}
}

// Factory wraps Func in a CalculatorFactory, the shape expected by Register.
func Factory[P any](meta score.Metadata, fn func(P) (score.Result, error)) ports.CalculatorFactory {
	return func() (ports.Calculator, error) {
		return Func(meta, fn), nil
	}
}

type funcCalculator[P any] struct {
	meta score.Metadata
	fn   func(P) (score.Result, error)
}

func (c *funcCalculator[P]) Metadata() score.Metadata {
	return c.meta.Clone()
}

func (c *funcCalculator[P]) Calculate(_ context.Context, params score.Parameters) (score.Result, error) {
	var p P
	if err := Bind(params, &p); err != nil {
		return nil, err
	}
	return c.fn(p)
}
