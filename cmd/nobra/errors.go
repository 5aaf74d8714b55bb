package main

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// Exit codes by failure category; anything else exits 1.
const (
	exitInvalidParameters = 2
	exitNotFound          = 3
	exitCalculationError  = 4
)

func exitCode(err error) int {
	var failure *score.Failure
	if !errors.As(err, &failure) {
		return 1
	}
	switch failure.Category {
	case score.CategoryInvalidParameters:
		return exitInvalidParameters
	case score.CategoryNotFound:
		return exitNotFound
	default:
		return exitCalculationError
	}
}
