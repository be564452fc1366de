package server

import (
	"errors"
	"fmt"
	"net/http"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/dataset"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
)

// AppError represents application-level error with HTTP status.
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

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", message, http.StatusBadRequest)
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError("ERR_NOT_FOUND", message, http.StatusNotFound)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", message, http.StatusInternalServerError)
}

// FromRunError maps a pipeline failure to an HTTP error. Parameter and
// dataset problems belong to the caller, everything else is reported as
// internal.
func FromRunError(err error) *AppError {
	switch {
	case errors.Is(err, fleetforecast.ErrConfig),
		errors.Is(err, dataset.ErrNoHeader),
		errors.Is(err, dataset.ErrSchema),
		errors.Is(err, dataset.ErrInsufficientData),
		errors.Is(err, dataset.ErrUnknownPolicy),
		errors.Is(err, strategy.ErrUnknownStrategy),
		errors.Is(err, strategy.ErrInsufficientHistory):
		return BadRequestError(err.Error()).WithError(err)
	}
	return InternalError("forecast run failed").WithError(err)
}
