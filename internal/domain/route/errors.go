package route

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a route cycle did not render.
type ErrorKind string

const (
	KindMissingOrigin      ErrorKind = "missing_origin"
	KindMissingDestination ErrorKind = "missing_destination"
	KindRouteNotFound      ErrorKind = "route_not_found"
	KindProviderError      ErrorKind = "provider_error"
	KindRequestTimeout     ErrorKind = "request_timeout"
	KindUnexpected         ErrorKind = "unexpected"
)

var messages = map[ErrorKind]string{
	KindMissingOrigin:      "Please select a valid starting location from the suggestions.",
	KindMissingDestination: "Please select a valid destination from the suggestions.",
	KindRouteNotFound:      "Route not found. Please try different locations or travel mode.",
	KindProviderError:      "The directions service is unavailable right now. Please try again.",
	KindRequestTimeout:     "The directions service took too long to respond. Please try again.",
	KindUnexpected:         "An unexpected error occurred. Please reload the page.",
}

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return messages[KindUnexpected]
}

// IsValidation reports whether the kind comes from input validation.
func (k ErrorKind) IsValidation() bool {
	return k == KindMissingOrigin || k == KindMissingDestination
}

// Error is a classified route failure. Cause is kept for logs and never shown to users.
type Error struct {
	Kind  ErrorKind
	Cause error
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Message returns the user-facing text.
func (e *Error) Message() string { return e.Kind.Message() }

var (
	ErrMissingOrigin      = &Error{Kind: KindMissingOrigin}
	ErrMissingDestination = &Error{Kind: KindMissingDestination}
	ErrRouteNotFound      = &Error{Kind: KindRouteNotFound}
)

// Is matches any *Error of the same kind so errors.Is(err, ErrRouteNotFound) works on wrapped causes.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf classifies err; unclassified errors are KindUnexpected.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnexpected
}
