package cli

import (
	"errors"
	"testing"

	apperrors "shift-tracker/internal/errors"
	"shift-tracker/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	fieldErr := validation.NewValidationError()
	fieldErr.AddRequiredError("name")

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "create user",
			err:       apperrors.NewValidationError("invalid input", nil),
			expected:  "failed to create user: invalid input",
		},
		{
			name:      "Validation error with field errors",
			operation: "create user",
			err:       apperrors.NewValidationError("invalid user", fieldErr),
			expected:  "failed to create user: invalid user: " + fieldErr.GetUserFriendlyMessage(),
		},
		{
			name:      "Illegal transition",
			operation: "end break",
			err:       apperrors.NewIllegalTransitionError("end break", "WORKING"),
			expected:  "failed to end break: cannot end break from WORKING",
		},
		{
			name:      "Not found error",
			operation: "get user",
			err:       apperrors.NewNotFoundError("user", "123"),
			expected:  "failed to get user: user not found: 123",
		},
		{
			name:      "Database error",
			operation: "clock in",
			err:       apperrors.NewDatabaseError("insert", errors.New("timeout")),
			expected:  "failed to clock in: A database error occurred. Please try again.",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Validation error",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: "invalid input",
		},
		{
			name:     "Conflict",
			err:      apperrors.NewConflictError("open entry 7 is over cap and awaits review", "time entry", "7"),
			expected: "open entry 7 is over cap and awaits review",
		},
		{
			name:     "Database error",
			err:      apperrors.NewDatabaseError("insert", errors.New("timeout")),
			expected: "A database error occurred. Please try again.",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.HandleSimple(tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.HandleSimple() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_IsValidationError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "AppError validation",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: true,
		},
		{
			name: "Field validation error",
			err: &validation.ValidationError{
				Errors: []validation.FieldError{
					{Field: "note", Message: "too long"},
				},
			},
			expected: true,
		},
		{
			name:     "Database error",
			err:      apperrors.NewDatabaseError("insert", nil),
			expected: false,
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.IsValidationError(tt.err)
			if result != tt.expected {
				t.Errorf("ErrorHandler.IsValidationError() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestErrorHandler_IsNotFoundError(t *testing.T) {
	eh := NewErrorHandler()

	if !eh.IsNotFoundError(apperrors.NewNotFoundError("user", "123")) {
		t.Errorf("IsNotFoundError should be true for a not found error")
	}
	if eh.IsNotFoundError(errors.New("regular error")) {
		t.Errorf("IsNotFoundError should be false for a regular error")
	}
}

func TestErrorHandler_IsConflictError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Conflict", apperrors.NewConflictError("stale", "time entry", "1"), true},
		{"Illegal transition", apperrors.NewIllegalTransitionError("begin break", "ON_BREAK"), true},
		{"Not found", apperrors.NewNotFoundError("time entry", "1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eh.IsConflictError(tt.err); got != tt.expected {
				t.Errorf("ErrorHandler.IsConflictError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorHandler_GetErrorCode(t *testing.T) {
	eh := NewErrorHandler()

	if got := eh.GetErrorCode(apperrors.NewValidationError("invalid input", nil)); got != "VALIDATION_FAILED" {
		t.Errorf("GetErrorCode() = %v, want VALIDATION_FAILED", got)
	}
	if got := eh.GetErrorCode(errors.New("regular error")); got != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN_ERROR", got)
	}
}

func TestErrorHandler_HandleNilError(t *testing.T) {
	eh := NewErrorHandler()

	if eh.Handle("clock out", nil) != nil {
		t.Errorf("ErrorHandler.Handle() with nil error should return nil")
	}
	if eh.HandleSimple(nil) != nil {
		t.Errorf("ErrorHandler.HandleSimple() with nil error should return nil")
	}
}
