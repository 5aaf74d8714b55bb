package registry

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Resolver turns a score identifier into a ready calculator.
type Resolver interface {
	Resolve(ctx context.Context, id score.ID) (ports.Calculator, error)
}

// Locator resolves identifiers against a static factory table. Calling the
// factory is the only "loading" step in the system; the Cache guarantees it
// runs at most once per identifier.
type Locator struct {
	source ports.CalculatorSource
	logger ports.Logger
}

// NewLocator creates a Locator over the provided factory table.
func NewLocator(source ports.CalculatorSource, logger ports.Logger) *Locator {
	return &Locator{
		source: source,
		logger: logging.OrNop(logger).With("component", "locator"),
	}
}

// Resolve builds the calculator registered for id. Unknown or malformed
// identifiers yield plugin.ErrPluginNotFound; a factory that fails, panics,
// returns nil, or produces a calculator describing a different identifier
// yields *plugin.MalformedPluginError.
func (l *Locator) Resolve(ctx context.Context, id score.ID) (calc ports.Calculator, err error) {
	if verr := id.Validate(); verr != nil {
		l.logger.Debug(ctx, "rejected score id", "score_id", string(id), "error", verr)
		return nil, plugin.ErrPluginNotFound{ID: string(id)}
	}

	factory, ok := l.source.Lookup(id)
	if !ok {
		return nil, plugin.ErrPluginNotFound{ID: string(id)}
	}

	defer func() {
		if r := recover(); r != nil {
			calc = nil
			err = &plugin.MalformedPluginError{ID: string(id), Reason: "factory panicked", Err: fmt.Errorf("%v", r)}
		}
	}()

	calc, err = factory()
	if err != nil {
		return nil, &plugin.MalformedPluginError{ID: string(id), Reason: "factory failed", Err: err}
	}
	if calc == nil {
		return nil, &plugin.MalformedPluginError{ID: string(id), Reason: "factory returned nil"}
	}

	meta := calc.Metadata()
	if meta.ID != id {
		return nil, &plugin.MalformedPluginError{
			ID:     string(id),
			Reason: fmt.Sprintf("calculator describes itself as '%s'", meta.ID),
		}
	}
	if verr := meta.Validate(); verr != nil {
		return nil, &plugin.MalformedPluginError{ID: string(id), Reason: "invalid metadata", Err: verr}
	}

	l.logger.Debug(ctx, "calculator loaded", "score_id", string(id), "category", meta.Category)
	return calc, nil
}

var _ Resolver = (*Locator)(nil)
