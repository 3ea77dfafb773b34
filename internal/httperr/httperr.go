// Package httperr defines the error type handlers return to signal an
// HTTP failure response.
package httperr

import "net/http"

// Error carries an HTTP status code and a user-facing message.
// The wrapped Err is for logging only and never reaches the client.
type Error struct {
	Err     error
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	return e.Code
}

func (e *Error) StatusText() string {
	return http.StatusText(e.Code)
}

// New creates an Error with the given status code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that carries an underlying cause for logging.
func Wrap(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Convenience constructors for the statuses handlers actually raise.

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "something went wrong", err)
}

// As extracts an *Error from err if present, nil otherwise.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if httpErr, ok := err.(*Error); ok {
		return httpErr
	}
	return nil
}
