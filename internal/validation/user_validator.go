package validation

import (
	"strings"

	"shift-tracker/internal/config"
)

// roles mirrors the values accepted by the users table.
var roles = []string{"worker", "manager", "admin"}

// UserValidator provides validation for user operations
type UserValidator struct {
	validator *Validator
}

// NewUserValidator creates a new user validator
func NewUserValidator() *UserValidator {
	return &UserValidator{validator: NewValidator()}
}

// NewUserValidatorWithConfig creates a user validator honoring configured limits
func NewUserValidatorWithConfig(cfg *config.Config) *UserValidator {
	return &UserValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateName validates a display name
func (uv *UserValidator) ValidateName(name string) error {
	validationError := NewValidationError()

	trimmed := uv.validator.TrimAndValidateString(name)
	if !uv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("name")
		return validationError
	}

	minLen, maxLen := uv.validator.getUserNameMinLength(), uv.validator.getUserNameMaxLength()
	if !uv.validator.IsValidStringLength(trimmed, minLen, maxLen) {
		validationError.AddInvalidLengthError("name", trimmed, minLen, maxLen)
	}
	if !uv.validator.IsValidUserName(trimmed) {
		validationError.AddInvalidCharacterError("name", trimmed)
	}

	return validationError.ErrOrNil()
}

// ValidateRole checks role against the known roles
func (uv *UserValidator) ValidateRole(role string) error {
	for _, r := range roles {
		if role == r {
			return nil
		}
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("role", role, "must be one of "+strings.Join(roles, ", "))
	return validationError
}

// ValidateUserForCreation validates name and role together
func (uv *UserValidator) ValidateUserForCreation(name, role string) error {
	validationError := NewValidationError()
	validationError.Merge(uv.ValidateName(name))
	validationError.Merge(uv.ValidateRole(role))
	return validationError.ErrOrNil()
}

// GetValidName returns a cleaned name if valid
func (uv *UserValidator) GetValidName(name string) (string, error) {
	if err := uv.ValidateName(name); err != nil {
		return "", err
	}
	return uv.validator.TrimAndValidateString(name), nil
}
