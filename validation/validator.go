package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/voxalign/errors"
)

// FieldError is one failed rule, keyed by the dotted settings path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects failures from chained checks. The zero value is ready
// to use.
type Validator struct {
	errors []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the failures in the order they were recorded.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns nil or an INVALID_SETTINGS AppError listing every
// failure, with the FieldErrors under the "fields" detail.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	var b strings.Builder
	for i, e := range v.errors {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", e.Field, e.Message)
	}
	return errors.InvalidSettings(b.String()).WithDetail("fields", v.errors)
}

// Required fails on blank values.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

// Contains fails when a format string lacks verb, e.g. "%d" in "Mic %d".
func (v *Validator) Contains(field, value, verb string) *Validator {
	return v.Custom(strings.Contains(value, verb), field, "must contain "+verb)
}

// Custom fails with message unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}
