package validate

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *Error through errors.Is.
var ErrValidation = errors.New("validation failed")

type Code string

const (
	InvalidLength    Code = "invalid_length"
	InvalidBoolean   Code = "invalid_boolean"
	InvalidInteger   Code = "invalid_integer"
	InvalidEnum      Code = "invalid_enum"
	EmptyField       Code = "empty_field"
	InvalidFormat    Code = "invalid_format"
	InvalidReference Code = "invalid_reference"
)

// Error is a named validation failure for a single field.
type Error struct {
	Field   string
	Code    Code
	Value   string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// CodeOf returns the code carried by err, or "" when err is not a validation error.
func CodeOf(err error) Code {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func fail(field string, code Code, value, msg string) *Error {
	return &Error{Field: field, Code: code, Value: value, Message: msg}
}
