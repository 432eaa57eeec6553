// Package validation adapts go-playground/validator to Echo's Validator
// hook. Request DTOs declare their constraints with `validate` struct tags
// and handlers surface violations as 422 responses with per-field
// messages.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator satisfies echo.Validator. Register it once on the Echo
// instance; handlers then call c.Validate(&req).
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator whose error messages name fields by their json
// tag, matching what the client actually sent.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator. Constraint violations are returned
// as Errors; anything else (a broken DTO definition) passes through as-is.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return out
}

// Errors maps a field name to a human-readable constraint message.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// JSON writes the 422 response for a failed c.Validate call. Non-Errors
// values fall back to a generic 400 so malformed DTOs never leak internal
// detail.
func JSON(c echo.Context, err error) error {
	var fields Errors
	if errors.As(err, &fields) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "Validation failure",
			"errors":  fields,
		})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
