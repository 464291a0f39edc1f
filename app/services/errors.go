package services

import "net/http"

// Error is a domain failure with the HTTP status it should surface as.
// Anything else bubbling out of a service is treated as a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds a domain error.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func notFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

func badRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

func conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}
