package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound   Code = "not_found"
	CodeForbidden  Code = "forbidden"
	CodeValidation Code = "validation"
	CodeInternal   Code = "internal"
)

// Error несет код ошибки, понятное сообщение и исходную причину.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сообщает, содержит ли цепочка ошибок ошибку с указанным кодом.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
