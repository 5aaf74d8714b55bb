package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want score.FailureCategory
	}{
		{name: "plugin not found", err: plugin.ErrPluginNotFound{ID: "x"}, want: score.CategoryNotFound},
		{name: "wrapped not found", err: fmt.Errorf("resolve: %w", plugin.ErrPluginNotFound{ID: "x"}), want: score.CategoryNotFound},
		{name: "malformed plugin", err: &plugin.MalformedPluginError{ID: "x", Reason: "nil"}, want: score.CategoryNotFound},
		{name: "value error", err: plugin.NewValueError("age", "too old"), want: score.CategoryInvalidParameters},
		{name: "wrapped value error", err: fmt.Errorf("calc: %w", plugin.NewValueError("age", "too old")), want: score.CategoryInvalidParameters},
		{name: "binding error", err: &plugin.BindingError{Missing: []string{"age"}}, want: score.CategoryInvalidParameters},
		{name: "internal sentinel", err: plugin.ErrInternal, want: score.CategoryCalculationError},
		{name: "internal wrapping value", err: fmt.Errorf("%w: %w", plugin.ErrInternal, plugin.NewValueError("a", "b")), want: score.CategoryCalculationError},
		{name: "panic", err: &PanicError{ScoreID: "x", Value: "boom"}, want: score.CategoryCalculationError},
		{name: "context cancelled", err: context.Canceled, want: score.CategoryCalculationError},
		{name: "arbitrary error", err: errors.New("division by zero"), want: score.CategoryCalculationError},
		{name: "nil", err: nil, want: score.CategoryCalculationError},
		{name: "existing failure", err: score.NewFailure(score.CategoryInvalidParameters, "x", "bad", nil), want: score.CategoryInvalidParameters},
		{name: "failure with unknown category", err: score.NewFailure("Bogus", "x", "bad", nil), want: score.CategoryCalculationError},
		{name: "typed nil value error", err: (*plugin.ValueError)(nil), want: score.CategoryCalculationError},
		{name: "typed nil binding error", err: (*plugin.BindingError)(nil), want: score.CategoryCalculationError},
		{name: "wrapped typed nil value error", err: fmt.Errorf("calc: %w", (*plugin.ValueError)(nil)), want: score.CategoryCalculationError},
		{name: "typed nil malformed plugin", err: (*plugin.MalformedPluginError)(nil), want: score.CategoryCalculationError},
		{name: "typed nil failure", err: (*score.Failure)(nil), want: score.CategoryCalculationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestNewFailureMessages(t *testing.T) {
	t.Run("invalid parameters carry plugin message", func(t *testing.T) {
		f := NewFailure("rox_index", plugin.NewValueError("fio2", "fio2 must be between 0.21 and 1.0"))
		assert.Equal(t, score.CategoryInvalidParameters, f.Category)
		assert.Equal(t, "fio2 must be between 0.21 and 1.0", f.Message)
		assert.Equal(t, score.ID("rox_index"), f.ScoreID)
	})

	t.Run("binding failure lists keys", func(t *testing.T) {
		f := NewFailure("rox_index", &plugin.BindingError{Missing: []string{"spo2"}})
		assert.Equal(t, "missing required parameters: spo2", f.Message)
	})

	t.Run("calculation error is opaque", func(t *testing.T) {
		cause := &PanicError{ScoreID: "rox_index", Value: "index out of range", Stack: []byte("goroutine 1 [running]")}
		f := NewFailure("rox_index", cause)
		assert.Equal(t, score.CategoryCalculationError, f.Category)
		assert.NotContains(t, f.Message, "goroutine")
		assert.NotContains(t, f.Message, "index out of range")
		assert.ErrorIs(t, f, cause)
	})

	t.Run("not found is opaque", func(t *testing.T) {
		f := NewFailure("nope", plugin.ErrPluginNotFound{ID: "nope"})
		assert.Equal(t, "score 'nope' is not available", f.Message)
		assert.NotContains(t, f.Message, "Hint")
	})

	t.Run("typed nil parameter errors are opaque calculation errors", func(t *testing.T) {
		for _, err := range []error{(*plugin.ValueError)(nil), (*plugin.BindingError)(nil)} {
			var f *score.Failure
			assert.NotPanics(t, func() { f = NewFailure("rox_index", err) })
			assert.Equal(t, score.CategoryCalculationError, f.Category)
			assert.Equal(t, "an internal error occurred while calculating score 'rox_index'", f.Message)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		f := NewFailure("rox_index", context.DeadlineExceeded)
		assert.Contains(t, f.Message, "cancelled")
	})

	t.Run("existing failure passes through", func(t *testing.T) {
		existing := score.NewFailure(score.CategoryNotFound, "x", "gone", nil)
		assert.Same(t, existing, NewFailure("y", fmt.Errorf("wrap: %w", existing)))
	})
}
