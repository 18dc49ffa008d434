// Package rule wraps go-playground/validator for struct and single-field
// validation, mapping violations to per-field messages that can be rendered
// next to form inputs.
package rule

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

func lazyInit() {
	once.Do(func() {
		inst = validator.New()
		inst.SetTagName("rule")
	})
}

// FieldErrors maps a field name to a human-readable message
type FieldErrors map[string]string

// Error implements error by joining the field messages
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct runs full validation of a tagged struct, returning
// FieldErrors on violation
func ValidateStruct(s any) error {
	lazyInit()

	err := inst.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = message(fe)
	}
	return fields
}

// ValidateVar validates a single value against a rule expression, for
// example: ValidateVar("abc", "required,email")
func ValidateVar(field any, tag string) error {
	lazyInit()
	return inst.Var(field, tag)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
