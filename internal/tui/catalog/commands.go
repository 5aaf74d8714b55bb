package catalog

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// loadCatalogCmd resolves the catalog in the background.
func loadCatalogCmd(ctx context.Context, svc ScoreService) tea.Cmd {
	return func() tea.Msg {
		return CatalogLoadedMsg{Items: svc.List(ctx)}
	}
}

// calculateExampleCmd runs a calculator on its shipped example parameters.
func calculateExampleCmd(ctx context.Context, svc ScoreService, meta score.Metadata) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := svc.CalculateScore(ctx, meta.ID, meta.Example.Clone())
		if err != nil {
			return CalculationErrorMsg{ID: meta.ID, Error: err}
		}
		return CalculationCompleteMsg{ID: meta.ID, Result: result, Duration: time.Since(start)}
	}
}
