// Package apperr classifies failures surfaced to the storefront user.
//
// Every error leaving the application layer is one of four kinds. Input and
// availability errors are recoverable in place; submission errors end the
// current attempt; resolution errors keep the total from being presented as
// final.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindAvailability
	KindSubmission
	KindResolution
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "INPUT"
	case KindAvailability:
		return "AVAILABILITY"
	case KindSubmission:
		return "SUBMISSION"
	case KindResolution:
		return "RESOLUTION"
	default:
		return "UNKNOWN"
	}
}

// Error carries a user-facing message next to the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

func Input(err error, message string) *Error {
	return &Error{Kind: KindInput, Message: message, Err: err}
}

func Availability(err error, message string) *Error {
	return &Error{Kind: KindAvailability, Message: message, Err: err}
}

func Submission(err error, message string) *Error {
	return &Error{Kind: KindSubmission, Message: message, Err: err}
}

func Resolution(err error, message string) *Error {
	return &Error{Kind: KindResolution, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message for err. Errors that were never
// classified get a generic retry message so internals do not leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
