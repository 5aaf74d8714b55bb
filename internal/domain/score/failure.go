package score

import (
	"errors"
	"fmt"
)

// FailureCategory identifies the closed set of outcomes a failed calculation
// can surface across the registry boundary.
type FailureCategory string

const (
	// CategoryNotFound means the requested score has no resolvable calculator.
	CategoryNotFound FailureCategory = "NotFound"
	// CategoryInvalidParameters means the calculator rejected the supplied values.
	CategoryInvalidParameters FailureCategory = "InvalidParameters"
	// CategoryCalculationError covers every other failure during invocation.
	CategoryCalculationError FailureCategory = "CalculationError"
)

var categories = []FailureCategory{
	CategoryNotFound,
	CategoryInvalidParameters,
	CategoryCalculationError,
}

// Categories returns the closed set of failure categories.
func Categories() []FailureCategory {
	out := make([]FailureCategory, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c FailureCategory) Valid() bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

func (c FailureCategory) String() string {
	return string(c)
}

// Failure is the categorized, message-bearing error returned by the registry
// facade. Message is safe to show to callers; Cause is kept for logs only.
type Failure struct {
	Category FailureCategory
	ScoreID  ID
	Message  string
	Cause    error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.ScoreID != "" {
		return fmt.Sprintf("%s [%s]: %s", f.Category, f.ScoreID, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As usage.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Cause
}

// Is matches another Failure with the same category.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if f == nil || !errors.As(target, &other) || other == nil {
		return false
	}
	return f.Category == other.Category
}

// NewFailure constructs a Failure.
func NewFailure(category FailureCategory, id ID, message string, cause error) *Failure {
	return &Failure{
		Category: category,
		ScoreID:  id,
		Message:  message,
		Cause:    cause,
	}
}

// AsFailure extracts a Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) && failure != nil {
		return failure, true
	}
	return nil, false
}

// IsCategory reports whether err is a Failure of the given category.
func IsCategory(err error, category FailureCategory) bool {
	failure, ok := AsFailure(err)
	return ok && failure.Category == category
}
