package validation

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/voxalign/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Prefer mapstructure (settings) then json (payloads) tag names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Validate validates a settings struct using `validate` tags and reports
// failures as INVALID_SETTINGS.
func Validate(s any) error {
	fields, msg, ok := check(s)
	if ok {
		return nil
	}
	return errors.InvalidSettings(msg).WithDetail("fields", fields)
}

// ValidateRequest validates a decoded request body and reports failures as
// INVALID_PAYLOAD with a 400 status.
func ValidateRequest(s any) error {
	fields, msg, ok := check(s)
	if ok {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidPayload, msg, http.StatusBadRequest).WithDetail("fields", fields)
}

func check(s any) ([]FieldError, string, bool) {
	err := getValidator().Struct(s)
	if err == nil {
		return nil, "", true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, "validation failed: " + err.Error(), false
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := fieldPath(e)
		message := formatValidationError(e)
		fieldErrors = append(fieldErrors, FieldError{Field: field, Message: message})
		messages = append(messages, field+": "+message)
	}
	return fieldErrors, strings.Join(messages, "; "), false
}

// fieldPath drops the root struct name from the namespace so nested fields
// read as "alignment.threshold".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "dive":
		return "contains an invalid entry"
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
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
