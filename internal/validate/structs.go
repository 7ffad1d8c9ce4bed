package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once            sync.Once
	structValidator *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their json name, like request bodies do
		structValidator.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return sf.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct runs the `validate` struct tags of in and converts the first
// failing rule into an *Error.
func Struct(in any) error {
	err := instance().Struct(in)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := validationErrors[0]
	return &Error{
		Field:   fe.Field(),
		Code:    codeForRule(fe.Tag()),
		Value:   fmt.Sprint(fe.Value()),
		Message: validationMessage(fe.Tag(), fe.Param()),
	}
}

func codeForRule(rule string) Code {
	switch rule {
	case "required":
		return EmptyField
	case "min", "max", "len":
		return InvalidLength
	case "oneof":
		return InvalidEnum
	default:
		return InvalidFormat
	}
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
