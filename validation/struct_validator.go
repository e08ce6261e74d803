package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/gatekit/errors"
)

var (
	validate *validator.Validate
	once     sync.Once

	authorityPattern   = regexp.MustCompile(`^([A-Z][A-Z0-9_]*|[a-z*][a-z0-9_*-]*:[a-z*][a-z0-9_*-]*)$`)
	permissionPattern  = regexp.MustCompile(`^(\*|[a-z*][a-z0-9_*-]*:[a-z*][a-z0-9_*-]*)$`)
	providerKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{0,63}$`)
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Config structs are keyed by mapstructure, API payloads by json.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})

		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsUsername(fl.Field().String())
		})
		_ = validate.RegisterValidation("salt", func(fl validator.FieldLevel) bool {
			return IsSalt(fl.Field().String())
		})
		_ = validate.RegisterValidation("authority", func(fl validator.FieldLevel) bool {
			return IsAuthority(fl.Field().String())
		})
		_ = validate.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
			return IsPermission(fl.Field().String())
		})
	})
	return validate
}

// IsUsername reports whether s is non-blank and free of whitespace and
// control characters.
func IsUsername(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// IsAuthority reports whether s is a role ("ROLE_ADMIN") or a
// "resource:action" permission ("article:*").
func IsAuthority(s string) bool {
	return authorityPattern.MatchString(s)
}

// IsSalt reports whether s has no braces.
func IsSalt(s string) bool {
	return !strings.ContainsAny(s, "{}")
}

// IsPermission reports whether s is a "resource:action" pattern or "*".
func IsPermission(s string) bool {
	return permissionPattern.MatchString(s)
}

// IsProviderKey reports whether s is a lowercase provider key like "main"
// or "ldap.corp".
func IsProviderKey(s string) bool {
	return providerKeyPattern.MatchString(s)
}

// Validate validates a struct using struct tags.
// Uses tags like `validate:"required,username,max=255"`.
func Validate(s any) error {
	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))

	for _, e := range validationErrors {
		fieldName := fieldPath(e)
		message := formatValidationError(e)
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
		messages = append(messages, fieldName+": "+message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": fieldErrors,
	}

	return appErr
}

// fieldPath drops the root struct name from the namespace so nested fields
// read as "users[0].username".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice || e.Kind() == reflect.Map {
			return "must contain at least " + e.Param() + " items"
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "username":
		return "must be a non-empty name without whitespace"
	case "salt":
		return "must not contain { or }"
	case "authority":
		return "must be a role (ROLE_NAME) or a resource:action permission"
	case "permission":
		return "must be a resource:action pattern or *"
	case "unique":
		return "must not contain duplicates"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
