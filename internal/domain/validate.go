package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the record against the data model invariants.
func (r WorkoutRecord) Validate() error {
	return validateStruct(r)
}

func validateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}
	first := fieldErrs[0]
	return &ValidationError{Field: fieldPath(first.Namespace()), Reason: describeRule(first)}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// NutritionRequest is the planned session a nutrition plan is sized for.
type NutritionRequest struct {
	WorkoutType ActivityType `json:"workout_type" validate:"oneof=strength cardio flexibility sports"`
	Intensity   int          `json:"intensity" validate:"min=1,max=10"`
}

// Validate checks the workout type and intensity range.
func (r NutritionRequest) Validate() error {
	return validateStruct(r)
}
