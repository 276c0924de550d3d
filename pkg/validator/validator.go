package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"anoa.com/userdirectory/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register installs the custom tags on gin's validator engine and makes
// field errors report json names instead of Go field names.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tagName := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation("gender", validateGender); err != nil {
		return fmt.Errorf("register gender validation: %w", err)
	}
	return nil
}

func validateGender(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "male", "female":
		return true
	}
	return false
}

// FieldErrors converts a binding error into per-field errors.
func FieldErrors(err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]apperror.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, apperror.FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: getFieldErrorMessage(fe),
			})
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []apperror.FieldError{{
			Field:   typeErr.Field,
			Tag:     "type",
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()),
		}}
	}

	return []apperror.FieldError{{Field: "body", Tag: "format", Message: err.Error()}}
}

// FromBinding wraps a binding error as a ValidationError.
func FromBinding(err error) error {
	return apperror.Validation(FieldErrors(err))
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gender":
		return fmt.Sprintf("%s must be one of: male, female", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
