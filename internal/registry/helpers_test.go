package registry

import (
	"context"
	"sync/atomic"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

type fakeCalculator struct {
	meta      score.Metadata
	calculate func(context.Context, score.Parameters) (score.Result, error)
}

func (f *fakeCalculator) Metadata() score.Metadata { return f.meta }

func (f *fakeCalculator) Calculate(ctx context.Context, params score.Parameters) (score.Result, error) {
	if f.calculate == nil {
		return completeResult(), nil
	}
	return f.calculate(ctx, params)
}

func fakeMeta(id score.ID, category string) score.Metadata {
	return score.Metadata{
		ID:          id,
		Title:       "Fake " + string(id),
		Description: "test calculator",
		Category:    category,
		ResultUnit:  "points",
	}
}

func newFake(id score.ID, fn func(context.Context, score.Parameters) (score.Result, error)) *fakeCalculator {
	return &fakeCalculator{meta: fakeMeta(id, "testing"), calculate: fn}
}

func completeResult() score.Result {
	return score.NewResult(3, "points", "fine", "Low", "low risk")
}

// countingFactory returns the same calculator every time and counts calls.
func countingFactory(calc ports.Calculator, loads *int64) ports.CalculatorFactory {
	return func() (ports.Calculator, error) {
		atomic.AddInt64(loads, 1)
		return calc, nil
	}
}

func catalogWith(entries map[score.ID]ports.CalculatorFactory) *plugin.Catalog {
	c := plugin.NewCatalog()
	for id, factory := range entries {
		if err := c.Register(id, factory); err != nil {
			panic(err)
		}
	}
	return c
}

func staticFactory(calc ports.Calculator) ports.CalculatorFactory {
	return func() (ports.Calculator, error) { return calc, nil }
}
