package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrPathResolution  = errors.New("path does not resolve")
	ErrNotEditable     = errors.New("node is not editable")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeSerialization ErrorType = "serialization"
	ErrorTypePath          ErrorType = "path"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeOutput        ErrorType = "output"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewSerializationError creates a new error for document text that is not valid JSON
func NewSerializationError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeSerialization, Message: message, Err: err}
}

// NewPathError creates a new error for a path that cannot be applied to a
// document. Use PathError when the failing segment is known.
func NewPathError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypePath, Message: message, Err: err}
}

// NewValidationError creates a new error for rejected user input.
// The message is shown to the user as is.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, &AppError{Type: ErrorTypeValidation})
}

// IsSerialization reports whether err is a serialization error.
func IsSerialization(err error) bool {
	return errors.Is(err, &AppError{Type: ErrorTypeSerialization})
}

// PathError reports a path that cannot be walked or written in a document.
// Position is the zero-based index of the offending segment.
type PathError struct {
	Path     string
	Position int
	Segment  string
	Expected string
	Found    string
	Reason   string
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("segment %d (%s) of %s", e.Position, e.Segment, e.Path)
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s, found %s", e.Expected, e.Found)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrPathResolution) match.
func (e *PathError) Unwrap() error {
	return ErrPathResolution
}

// Is matches the path AppError type so callers can treat both uniformly.
func (e *PathError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == ErrorTypePath
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return fmt.Sprintf("Path error: %s", pathErr.Error())
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeSerialization:
			return fmt.Sprintf("Document is not valid JSON: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Path error: %s", appErr.Message)
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeConfig:
			return fmt.Sprintf("Config error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNotEditable) {
		return "Error: Objects and arrays cannot be edited directly. Select a scalar field."
	}

	return fmt.Sprintf("Error: %v", err)
}
