package http

import (
	"fmt"
	"net/http"
)

// AppError is an application-level error carrying the HTTP status it maps
// to. Handlers build one and hand it to AppErrorResponse.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError attaches the underlying cause. The cause is logged, never
// serialized to the client.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return &AppError{Code: "ERR_NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

// NotFoundErrorf creates a 404 error with formatting.
func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return &AppError{Code: "ERR_BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return &AppError{Code: "ERR_INTERNAL", Message: message, Status: http.StatusInternalServerError}
}
