package errors

import (
	"errors"
	"fmt"
)

// Error codes shared across the pipeline.
const (
	CodeValidation   = "validation"
	CodeGeneration   = "generation"
	CodeNotConnected = "not_connected"
	CodePublish      = "publish"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
)

// Coded sentinels. errors.Is matches any *Error carrying the same code.
var (
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrGeneration   = &Error{Code: CodeGeneration, Message: "generation failed"}
	ErrNotConnected = &Error{Code: CodeNotConnected, Message: "platform not connected"}
	ErrPublish      = &Error{Code: CodePublish, Message: "publish failed"}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a coded error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// NewWithCode creates a coded error without a cause.
func NewWithCode(code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a validation error with a formatted message.
func Validation(format string, args ...any) error {
	return NewWithCode(CodeValidation, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsGeneration(err error) bool   { return errors.Is(err, ErrGeneration) }
func IsNotConnected(err error) bool { return errors.Is(err, ErrNotConnected) }
func IsPublish(err error) bool      { return errors.Is(err, ErrPublish) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
