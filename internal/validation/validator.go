package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"shift-tracker/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	nameRegex *regexp.Regexp
	config    *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		nameRegex: regexp.MustCompile(`^[\p{L}\p{N} '\-_.]+$`),
		config:    cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length in runes is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidUserName checks that a name is letters, digits, spaces and simple punctuation
func (v *Validator) IsValidUserName(name string) bool {
	return v.nameRegex.MatchString(name)
}

// IsValidID checks if a row ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidCapMinutes checks a per-entry cap against the configured ceiling
func (v *Validator) IsValidCapMinutes(minutes int) bool {
	return minutes > 0 && minutes <= v.getMaxCapMinutes()
}

// IsWithin reports whether lo <= t <= hi.
func (v *Validator) IsWithin(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// IsValidDateRange checks if a date range is logical
func (v *Validator) IsValidDateRange(from, to *time.Time) bool {
	if from == nil || to == nil {
		return true
	}
	return from.Before(*to)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) getUserNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.UserNameMinLength
	}
	return 1
}

func (v *Validator) getUserNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.UserNameMaxLength
	}
	return 100
}

func (v *Validator) getNoteMaxLength() int {
	if v.config != nil {
		return v.config.Validation.NoteMaxLength
	}
	return 1000
}

func (v *Validator) getMaxCapMinutes() int {
	if v.config != nil {
		return v.config.Validation.MaxCapMinutes
	}
	return 24 * 60
}
