// Package apperr holds the error classes shared by services, the auth gate
// and the HTTP layer. The HTTP layer maps classes to status codes with
// errors.Is and only ever shows a client the message of an *Error.
package apperr

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when a registration reuses an email.
	ErrDuplicateEmail = errors.New("email already used")
	// ErrUnauthenticated covers absent, invalid and expired tokens.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing resource or identity.
	ErrNotFound = errors.New("not found")
)

// ErrInvalidCredentials is the single login failure for both an unknown
// email and a wrong password.
var ErrInvalidCredentials = New(ErrValidation, "Invalid credentials")

// Error is a classified error whose message is safe to show to clients.
type Error struct {
	Msg   string
	Class error
}

// New returns an *Error of the given class.
func New(class error, msg string) error {
	return &Error{Msg: msg, Class: class}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Class }

// PublicMessage returns the client-safe message carried by err, or fallback
// when err has none.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}
