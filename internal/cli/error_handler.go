package cli

import (
	stderrors "errors"
	"fmt"

	"shift-tracker/internal/errors"
	"shift-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := eh.userMessage(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, msg)
	}

	// Fallback for unknown errors
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := eh.userMessage(err); ok {
		return stderrors.New(msg)
	}
	return err
}

// userMessage renders structured errors; field-level validation failures
// are spelled out instead of the wrapped technical text.
func (eh *ErrorHandler) userMessage(err error) (string, bool) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		if validationErr, ok := validation.AsValidationError(err); ok {
			return validationErr.GetUserFriendlyMessage(), true
		}
		return "", false
	}

	if appErr.IsType(errors.ErrorTypeValidation) {
		if validationErr, ok := validation.AsValidationError(appErr.Cause); ok {
			return fmt.Sprintf("%s: %s", appErr.Message, validationErr.GetUserFriendlyMessage()), true
		}
	}
	return errors.GetUserMessage(err), true
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsConflictError checks if an error blocks on another writer or a flagged entry
func (eh *ErrorHandler) IsConflictError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeConflict) ||
		errors.IsErrorType(err, errors.ErrorTypeIllegalTransition)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
