package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Manufacturer errors
var (
	ErrManufacturerNotFound = NewCustomError(ErrResourceNotFound, "manufacturer not found")
)

// Car errors
var (
	ErrCarNotFound = NewCustomError(ErrResourceNotFound, "car not found")
)

// Driver errors
var (
	ErrDriverNotFound     = NewCustomError(ErrResourceNotFound, "driver not found")
	ErrUsernameTaken      = NewCustomError(ErrConflict, "a driver with this username already exists")
	ErrLicenseNumberTaken = NewCustomError(ErrConflict, "a driver with this license number already exists")
	ErrInvalidReference   = NewCustomError(ErrConflict, "referenced record does not exist")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NonFieldErrors is the key under which form-wide messages are collected.
const NonFieldErrors = "__all__"

// ValidationError collects field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add calls.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// Get returns the messages recorded for field.
func (e *ValidationError) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

// HasErrors reports whether any message was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return ErrValidationFailed.Error()
	}

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
