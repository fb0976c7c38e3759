package validation

import (
	"fmt"
	"time"

	"shift-tracker/internal/config"
)

// EntryValidator provides validation for time entry operations
type EntryValidator struct {
	validator *Validator
}

// NewEntryValidator creates a new entry validator
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{validator: NewValidator()}
}

// NewEntryValidatorWithConfig creates an entry validator honoring configured limits
func NewEntryValidatorWithConfig(cfg *config.Config) *EntryValidator {
	return &EntryValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateID validates a positive row id for the named field
func (ev *EntryValidator) ValidateID(field string, id int64) error {
	if ev.validator.IsValidID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError(field, id, "must be a positive integer")
	return validationError
}

// ValidateNote checks a free-text note against the configured maximum.
// Empty notes are allowed.
func (ev *EntryValidator) ValidateNote(field, note string) error {
	maxLen := ev.validator.getNoteMaxLength()
	if ev.validator.IsValidStringLength(note, 0, maxLen) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidLengthError(field, note, 0, maxLen)
	return validationError
}

// ValidateCapMinutes checks a per-entry cap
func (ev *EntryValidator) ValidateCapMinutes(minutes int) error {
	if ev.validator.IsValidCapMinutes(minutes) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidRangeError("cap_minutes", minutes,
		fmt.Sprintf("must be between 1 and %d", ev.validator.getMaxCapMinutes()))
	return validationError
}

// ValidateWindow checks a half-open [from, to) reporting window
func (ev *EntryValidator) ValidateWindow(from, to time.Time) error {
	validationError := NewValidationError()
	if from.IsZero() {
		validationError.AddRequiredError("from")
	}
	if to.IsZero() {
		validationError.AddRequiredError("to")
	}
	if validationError.HasErrors() {
		return validationError
	}
	if !ev.validator.IsValidDateRange(&from, &to) {
		validationError.AddInvalidRangeError("window", map[string]time.Time{"from": from, "to": to},
			"from must be before to")
	}
	return validationError.ErrOrNil()
}

// ValidateCorrectionTime checks clockIn <= actualEnd <= now.
func (ev *EntryValidator) ValidateCorrectionTime(clockIn, actualEnd, now time.Time) error {
	validationError := NewValidationError()
	if actualEnd.IsZero() {
		validationError.AddRequiredError("actual_end_time")
		return validationError
	}
	if actualEnd.Before(clockIn) {
		validationError.AddInvalidRangeError("actual_end_time", actualEnd,
			fmt.Sprintf("must not be before clock-in %s", clockIn.Format(time.RFC3339)))
	}
	if actualEnd.After(now) {
		validationError.AddInvalidRangeError("actual_end_time", actualEnd, "must not be in the future")
	}
	return validationError.ErrOrNil()
}
