// Package validator provides request validation using go-playground/validator.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"game-recommendation-service/internal/domain"
)

// steamIDPattern matches a 64-bit SteamID of an individual account.
var steamIDPattern = regexp.MustCompile(`^7656119\d{10}$`)

// Validator wraps the go-playground validator with custom configuration.
type Validator struct {
	v *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// New creates a new Validator instance with custom tag name and validations.
//
// Custom tags:
//   - steamid: a 17-digit SteamID64
//   - vibe: a tag from the vibe vocabulary (separators and case are ignored)
func New() *Validator {
	v := validator.New()

	// Use JSON tag names for field names in errors, falling back to query tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "query", "params"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return fld.Name
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("steamid", func(fl validator.FieldLevel) bool {
		return steamIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("vibe", func(fl validator.FieldLevel) bool {
		return len(domain.ParseVibes([]string{fl.Field().String()})) == 1
	})

	return &Validator{v: v}
}

// Validate validates the given struct and returns ValidationErrors if invalid.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Value:   fmt.Sprintf("%v", e.Value()),
			Message: formatErrorMessage(e),
		})
	}

	return errs
}

// formatErrorMessage generates a human-readable error message.
func formatErrorMessage(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "steamid":
		return fmt.Sprintf("%s must be a 17-digit SteamID64", field)
	case "vibe":
		return fmt.Sprintf("%s must be one of: %s", field, knownVibes())
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}

func knownVibes() string {
	known := domain.KnownVibes()
	names := make([]string, len(known))
	for i, v := range known {
		names[i] = string(v)
	}
	return strings.Join(names, " ")
}
