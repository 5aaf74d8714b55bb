package catalog

import (
	"context"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// ScoreService exposes the operations the browser needs to list calculators
// and run their example parameters.
type ScoreService interface {
	List(ctx context.Context) []score.Metadata
	CalculateScore(ctx context.Context, id score.ID, params score.Parameters) (score.Result, error)
}
