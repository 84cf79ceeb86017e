// Package domainerrors provides coded errors shared by services and the HTTP
// layer. Services return these (optionally wrapping a cause) and transports
// translate the code into a status without inspecting error strings.
package domainerrors

import (
	"errors"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation       Code = "validation_error"
	CodeMethodNotAllowed Code = "method_not_allowed"
	CodeTooManyRequests  Code = "too_many_requests"
	CodePayload          Code = "payload_error"
	CodeRender           Code = "render_error"
	CodeDispatch         Code = "dispatch_error"
	CodeInternal         Code = "internal_error"
)

// Error is a domain error carrying a code, a caller-facing message and an
// optional cause that is only ever logged.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any domain error in err's chain has the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost domain error code, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message of the outermost domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
