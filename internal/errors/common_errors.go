package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing     ErrorType = "PARSING"
	ErrTypeSchema      ErrorType = "SCHEMA"
	ErrTypeUnsupported ErrorType = "UNSUPPORTED"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeConfig      ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewParsingError creates an error for a workbook that could not be read.
// The file name is attached as context.
func NewParsingError(file string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, fmt.Sprintf("failed to read spreadsheet %s", file), cause).
		WithContext("file", file)
}

// NewSchemaError creates an error for a required column missing from a file
func NewSchemaError(file string, columns ...string) *AppError {
	msg := fmt.Sprintf("%s is missing required column %q", file, columns[0])
	if len(columns) > 1 {
		msg = fmt.Sprintf("%s is missing required columns %q", file, columns)
	}
	return NewAppError(ErrTypeSchema, msg, nil).
		WithContext("file", file).
		WithContext("column", columns[0]).
		WithContext("columns", columns)
}

// NewUnsupportedFormatError creates an error for an input that is not a
// readable spreadsheet format
func NewUnsupportedFormatError(file, format string) *AppError {
	return NewAppError(ErrTypeUnsupported, fmt.Sprintf("unsupported spreadsheet format %q for %s", format, file), nil).
		WithContext("file", file).
		WithContext("format", format)
}

// NewBinaryWorkbookError rejects an Excel binary (.xlsb) workbook. The
// message tells the user how to convert it, since the file is otherwise a
// valid Excel export.
func NewBinaryWorkbookError(file string) *AppError {
	err := NewUnsupportedFormatError(file, ".xlsb")
	err.Message += "; " + ResaveBinaryHint
	return err.WithContext("hint", ResaveBinaryHint)
}

// ResaveBinaryHint is shown wherever .xlsb input is rejected
const ResaveBinaryHint = "save .xlsb workbooks as .xls or .xlsx in Excel and try again"

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
