package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error carrying the application status code
// returned in the response envelope. The transport status is always 200; the
// Code field is the real signal.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code int, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Closed taxonomy of failure kinds. Codes are stable and part of the API.
var (
	ErrInternal            = New(1, "the server encountered an error and cannot process the request, please try again later")
	ErrBadRequest          = New(1001, "the request is missing required parameters, please check your input")
	ErrUnauthorized        = New(1002, "authentication credentials are invalid or expired")
	ErrForbidden           = New(1003, "you do not have permission to access this resource")
	ErrNotFound            = New(1004, "the requested resource was not found")
	ErrConflict            = New(1005, "the request conflicts with the current resource state")
	ErrUnprocessableEntity = New(1006, "the request contains invalid data and cannot be processed")
	ErrTooManyRequests     = New(1007, "you are sending requests too quickly, please slow down")
)

// ErrCacheMiss signals an absent cache entry. Absence is a normal outcome for
// cache lookups and is never surfaced through the envelope directly.
var ErrCacheMiss = errors.New("cache: key not found")

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
