// Package validator wraps the go-playground/validator library with a
// package-level singleton and standardized error formatting. Structs declare
// their rules through `validate` tags and callers receive a multi-error chain
// rooted at ErrValidationFailed describing every violated field.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the root of the multi-error chain returned when a
// struct fails validation. Callers match it with errors.Is to detect
// validation failures regardless of how many fields were rejected.
var ErrValidationFailed = errors.New("struct validation failed")

// validator is the singleton go-playground validator instance, created on
// package load.
var validator *gvalidator.Validate

// errStringFormat describes a single field violation.
//
// Example: "'Address': value '0x' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError converts a raw validator error into the package's multi-error
// shape. Errors that are not ValidationErrors pass through unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks whether the given struct satisfies its validation tags.
//
// It returns nil when every field passes. Otherwise it returns a combined
// error that wraps ErrValidationFailed plus one formatted message per
// rejected field:
//
//	type Input struct {
//	    Name string `validate:"required"`
//	}
//
//	if err := validator.Validate(input); errors.Is(err, validator.ErrValidationFailed) {
//	    // handle validation failure
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
