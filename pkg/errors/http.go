// Package errors carries HTTP-facing errors from delivery handlers to pkg/response.
package errors

import "net/http"

// HTTPError is an error with a client-visible status and code.
type HTTPError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError builds an HTTPError whose code mirrors the HTTP status.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{StatusCode: status, Code: status, Message: message}
}

// NewBadRequest is a 400 HTTPError.
func NewBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

// NewNotFound is a 404 HTTPError.
func NewNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrInternalServerError is returned for anything a handler did not map.
var ErrInternalServerError = &HTTPError{
	StatusCode: http.StatusInternalServerError,
	Code:       http.StatusInternalServerError,
	Message:    "Something went wrong",
}
