package ports

import (
	"context"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// Calculator is the contract every score plugin satisfies:
//   - Metadata() documents identity, category, declared parameters and an
//     example input that must always produce a complete result.
//   - Calculate() is a pure function of the supplied parameters. It must not
//     perform I/O, keep hidden state, or mutate its own configuration, since
//     one instance is shared by every concurrent invocation.
//
// Calculate reports caller mistakes with plugin.BindingError or
// plugin.ValueError, and internal defects with plugin.ErrInternal.
type Calculator interface {
	Metadata() score.Metadata
	Calculate(ctx context.Context, params score.Parameters) (score.Result, error)
}

// CalculatorFactory builds a Calculator. Factories are registered at startup
// and invoked at most once per identifier by the registry cache.
type CalculatorFactory func() (Calculator, error)

// CalculatorSource exposes the static factory table the registry resolves
// identifiers against.
type CalculatorSource interface {
	Lookup(id score.ID) (CalculatorFactory, bool)
	IDs() []score.ID
}

// ScoreService is the public registry surface consumed by the HTTP layer and
// the CLI. Implementations must be safe for concurrent use.
type ScoreService interface {
	CalculateScore(ctx context.Context, id score.ID, params score.Parameters) (score.Result, error)
	IDs(ctx context.Context) []score.ID
	List(ctx context.Context) []score.Metadata
	Metadata(ctx context.Context, id score.ID) (score.Metadata, error)
	Categories(ctx context.Context) []string
	Search(ctx context.Context, category, term string) []score.Metadata
	Available(ctx context.Context, id score.ID) bool
	Reload(ctx context.Context) int
}
