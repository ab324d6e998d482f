// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for transport-level shape checks.
// Business rules live in internal/validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Messages flattens validation errors into one line per field.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return out
}
