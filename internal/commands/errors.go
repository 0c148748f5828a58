package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation     = "COMMAND_VALIDATION_FAILED"
	TextCodeContextCancel  = "COMMAND_CONTEXT_CANCELED"
	TextCodeContextTimeout = "COMMAND_CONTEXT_TIMEOUT"
	TextCodeContextError   = "COMMAND_CONTEXT_ERROR"
	TextCodeExecution      = "COMMAND_EXECUTION_FAILED"
)

// Errors that already carry a go-errors category pass through unchanged.
// Validation errors are the exception: they are restamped with
// TextCodeValidation so callers see one code whatever layer rejected the
// message.

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	var typed *goerrors.Error
	if goerrors.As(err, &typed) {
		if typed.Category != goerrors.CategoryValidation {
			return err
		}
		return typed.Clone().WithTextCode(TextCodeValidation)
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(TextCodeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(TextCodeContextCancel)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(TextCodeContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(TextCodeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(TextCodeExecution)
}
