package catalog

import (
	"time"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewHelp
)

// CatalogLoadedMsg carries the calculators available to browse.
type CatalogLoadedMsg struct {
	Items []score.Metadata
}

// CalculationCompleteMsg reports a successful example run.
type CalculationCompleteMsg struct {
	ID       score.ID
	Result   score.Result
	Duration time.Duration
}

// CalculationErrorMsg reports a failed example run.
type CalculationErrorMsg struct {
	ID    score.ID
	Error error
}
