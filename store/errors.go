package store

import (
	"context"
	"errors"
	"fmt"
)

type Code string

const (
	CodePermission  Code = "permission"
	CodeNotFound    Code = "not_found"
	CodeInvalid     Code = "invalid"
	CodeUnavailable Code = "unavailable"
)

// Error is returned by every Remote call that did not take effect.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("store %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf reports the code of the first *Error in err's chain. Context
// cancellation counts as unavailable; any other error yields "".
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeUnavailable
	}
	return ""
}

func IsPermission(err error) bool { return CodeOf(err) == CodePermission }
func IsNotFound(err error) bool   { return CodeOf(err) == CodeNotFound }
func IsInvalid(err error) bool    { return CodeOf(err) == CodeInvalid }
