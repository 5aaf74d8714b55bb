package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// Classify maps any failure observed during resolution or invocation to one
// of the three failure categories. It is total: anything it does not
// recognise is a CalculationError, never InvalidParameters.
func Classify(err error) score.FailureCategory {
	if failure, ok := score.AsFailure(err); ok && failure.Category.Valid() {
		return failure.Category
	}

	var notFound plugin.ErrPluginNotFound
	var malformed *plugin.MalformedPluginError
	switch {
	case err == nil:
		return score.CategoryCalculationError
	case errors.As(err, &notFound), errors.As(err, &malformed) && malformed != nil:
		return score.CategoryNotFound
	case errors.Is(err, plugin.ErrInternal):
		return score.CategoryCalculationError
	case isParameterError(err):
		return score.CategoryInvalidParameters
	default:
		return score.CategoryCalculationError
	}
}

// isParameterError matches non-nil ValueError and BindingError values only;
// a typed-nil pointer returned as an error is a calculator defect.
func isParameterError(err error) bool {
	if _, ok := plugin.AsValueError(err); ok {
		return true
	}
	_, ok := plugin.AsBindingError(err)
	return ok
}

// NewFailure classifies err and wraps it in a *score.Failure carrying a
// message safe to return to callers. InvalidParameters failures carry the
// calculator's own description of the problem; the other categories carry a
// fixed message and keep the cause for logs only. An err that is already a
// Failure is returned unchanged.
//
// Classification never panics: anything that goes wrong while inspecting err
// yields a CalculationError.
func NewFailure(id score.ID, err error) (failure *score.Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = score.NewFailure(score.CategoryCalculationError, id,
				failureMessage(score.CategoryCalculationError, id, nil),
				fmt.Errorf("classify error: %v", r))
		}
	}()

	if existing, ok := score.AsFailure(err); ok && existing.Category.Valid() {
		return existing
	}

	category := Classify(err)
	return score.NewFailure(category, id, failureMessage(category, id, err), err)
}

func failureMessage(category score.FailureCategory, id score.ID, err error) string {
	switch category {
	case score.CategoryNotFound:
		return fmt.Sprintf("score '%s' is not available", id)
	case score.CategoryInvalidParameters:
		if valueErr, ok := plugin.AsValueError(err); ok {
			return valueErr.Message
		}
		if bindErr, ok := plugin.AsBindingError(err); ok {
			return bindErr.Error()
		}
		return fmt.Sprintf("invalid parameters for score '%s'", id)
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("calculation of score '%s' was cancelled", id)
		}
		return fmt.Sprintf("an internal error occurred while calculating score '%s'", id)
	}
}
