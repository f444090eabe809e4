// Package validation provides request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/flixlens/flixlens/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(jsonName)

	return &Validator{v: v}
}

func jsonName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if name == "" || name == "-" {
		return fld.Name
	}
	// Remove options like omitempty
	for i := range len(name) {
		if name[i] == ',' {
			return name[:i]
		}
	}
	return name
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(s, err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(s any, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e, fieldParam(s, e))
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

// fieldParam resolves a cross-field parameter ("YearFrom") to its JSON name.
func fieldParam(s any, e validator.FieldError) string {
	param := e.Param()
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return param
	}
	if f, ok := t.FieldByName(param); ok {
		return jsonName(f)
	}
	return param
}

func friendlyMessage(e validator.FieldError, param string) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("must not exceed %s characters", param)
	case "oneof":
		return "must be one of: " + param
	case "gte", "gtefield":
		return "must be greater than or equal to " + param
	case "lte", "ltefield":
		return "must be less than or equal to " + param
	case "gt", "gtfield":
		return "must be greater than " + param
	case "lt", "ltfield":
		return "must be less than " + param
	default:
		return "is invalid"
	}
}
