package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/gatekit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": v.errors,
	}

	return appErr
}

// Err is Validate as a plain error, nil when there are no field errors.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// RequiredUUID checks if a string is a valid non-nil UUID.
func (v *Validator) RequiredUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
		return v
	}

	parsed, err := uuid.Parse(value)
	if err != nil {
		v.AddError(field, "must be a valid UUID")
		return v
	}

	if parsed == uuid.Nil {
		v.AddError(field, "must not be empty")
	}

	return v
}

// Username checks that value is a usable account name.
func (v *Validator) Username(field, value string) *Validator {
	if !IsUsername(value) {
		v.AddError(field, "must be a non-empty name without whitespace")
	}
	return v
}

// Salt checks that value can be merged into a "password{salt}" string.
func (v *Validator) Salt(field, value string) *Validator {
	if !IsSalt(value) {
		v.AddError(field, "must not contain { or }")
	}
	return v
}

// Authority checks that value is a role or a "resource:action" permission.
func (v *Validator) Authority(field, value string) *Validator {
	if !IsAuthority(value) {
		v.AddError(field, "must be a role (ROLE_NAME) or a resource:action permission")
	}
	return v
}

// Permissions checks that patterns is non-empty and each entry is a
// "resource:action" pattern or "*".
func (v *Validator) Permissions(field string, patterns []string) *Validator {
	if len(patterns) == 0 {
		v.AddError(field, "must contain at least 1 items")
		return v
	}
	for i, p := range patterns {
		if !IsPermission(p) {
			v.AddError(fmt.Sprintf("%s[%d]", field, i), "must be a resource:action pattern or *")
		}
	}
	return v
}

// ProviderKey checks an optional provider key. Empty means the
// provider accepts tokens of any key.
func (v *Validator) ProviderKey(field, value string) *Validator {
	if value != "" && !IsProviderKey(value) {
		v.AddError(field, "must be lowercase letters, digits, '.', '_' or '-' starting with a letter")
	}
	return v
}

// Realm checks that value can be quoted in a WWW-Authenticate challenge.
func (v *Validator) Realm(field, value string) *Validator {
	for _, r := range value {
		if r == '"' || r == '\\' || r < ' ' || r == 0x7f {
			v.AddError(field, "must not contain quotes, backslashes or control characters")
			break
		}
	}
	return v
}
