package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInternal is the sentinel a calculator returns (or wraps) to signal a
// defect in its own logic rather than a problem with the caller's input.
var ErrInternal = errors.New("calculator internal failure")

// ErrPluginNotFound is returned when no calculator is registered for an id.
type ErrPluginNotFound struct {
	ID string
}

func (e ErrPluginNotFound) Error() string {
	return fmt.Sprintf("calculator '%s' not found in catalog\nHint: ensure the calculator package is imported so its init() registers it", e.ID)
}

// MalformedPluginError is returned when a registered factory cannot produce a
// usable calculator.
type MalformedPluginError struct {
	ID     string
	Reason string
	Err    error
}

func (e *MalformedPluginError) Error() string {
	if e == nil {
		return "<nil malformed plugin error>"
	}
	if e.Err == nil {
		return fmt.Sprintf("calculator '%s' is malformed: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("calculator '%s' is malformed: %s: %v", e.ID, e.Reason, e.Err)
}

// Unwrap returns the underlying factory error.
func (e *MalformedPluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValueError reports that a calculator rejected a supplied value: out of
// range, not one of the allowed options, or an impossible combination.
type ValueError struct {
	Field   string
	Message string
}

// NewValueError creates a new ValueError.
func NewValueError(field, message string) *ValueError {
	return &ValueError{Field: field, Message: message}
}

// ValueErrorf creates a ValueError with a formatted message.
func ValueErrorf(field, format string, args ...any) *ValueError {
	return &ValueError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValueError) Error() string {
	if e == nil {
		return "<nil value error>"
	}
	return e.Message
}

// Is checks if this error matches another ValueError.
func (e *ValueError) Is(target error) bool {
	_, ok := target.(*ValueError)
	return ok
}

// BindingError reports that the parameter mapping does not match the
// calculator's declared parameters: required keys missing, unknown keys
// present, or values of the wrong shape.
type BindingError struct {
	Missing    []string
	Unexpected []string
	Err        error
}

func (e *BindingError) Error() string {
	if e == nil {
		return "<nil binding error>"
	}
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required parameters: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected parameters: "+strings.Join(e.Unexpected, ", "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "invalid parameter mapping"
	}
	return strings.Join(parts, "; ")
}

// Unwrap returns the underlying decode error.
func (e *BindingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is checks if this error matches another BindingError.
func (e *BindingError) Is(target error) bool {
	_, ok := target.(*BindingError)
	return ok
}

// AsValueError extracts a ValueError from an error chain. A typed-nil
// *ValueError in the chain does not match.
func AsValueError(err error) (*ValueError, bool) {
	var valueErr *ValueError
	if errors.As(err, &valueErr) && valueErr != nil {
		return valueErr, true
	}
	return nil, false
}

// AsBindingError extracts a BindingError from an error chain. A typed-nil
// *BindingError in the chain does not match.
func AsBindingError(err error) (*BindingError, bool) {
	var bindErr *BindingError
	if errors.As(err, &bindErr) && bindErr != nil {
		return bindErr, true
	}
	return nil, false
}
