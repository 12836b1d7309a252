package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single per-field violation returned to the caller.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// fieldNames maps struct field names to their JSON names
var fieldNames = map[string]string{
	"Name":    "name",
	"Email":   "email",
	"Subject": "subject",
	"Message": "message",
}

// Details converts validator.ValidationErrors into per-field violations.
// All violations are collected so the frontend can display every error at
// once. Returns nil if err is not a validation error.
func Details(err error) []FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	details := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, FieldError{
			Field:  fieldName(e.Field()),
			Reason: reason(e),
		})
	}
	return details
}

func fieldName(structField string) string {
	if name, ok := fieldNames[structField]; ok {
		return name
	}
	return strings.ToLower(structField)
}

// reason formats a single violation into a human-readable message
func reason(e validator.FieldError) string {
	field := fieldName(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return "Invalid email address"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
