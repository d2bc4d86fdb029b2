package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/kbukum/speechturn/errors"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors.
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// Errors returns the collected errors.
func (v *Validator) Errors() []FieldError { return v.errors }

// Error returns an INVALID_INPUT AppError listing every field, or nil.
func (v *Validator) Error() error {
	if len(v.errors) == 0 {
		return nil
	}
	return fieldsError(v.errors)
}

func fieldsError(fields []FieldError) *apperrors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + " " + e.Message
	}
	field := ""
	if len(fields) == 1 {
		field = fields[0].Field
	}
	return apperrors.InvalidInput(field, strings.Join(messages, "; ")).WithDetail("fields", fields)
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// MaxLength rejects values longer than maxLen runes.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if len([]rune(value)) > maxLen {
		v.AddError(field, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return v
}

// Pattern rejects non-empty values that do not match re.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp) *Validator {
	if value != "" && !re.MatchString(value) {
		v.AddError(field, "does not match the required format")
	}
	return v
}

// OneOf rejects non-empty values outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
