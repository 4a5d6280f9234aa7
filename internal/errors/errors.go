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
	ErrNoToken         = errors.New("no access token configured")
	ErrNoFixture       = errors.New("no fixture recorded for this endpoint")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeFetch   ErrorType = "fetch"
	ErrorTypeFixture ErrorType = "fixture"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
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
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewFetchError creates a new error related to talking to the live API
func NewFetchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFetch,
		Message: message,
		Err:     err,
	}
}

// NewFixtureError creates a new error related to stored fixtures
func NewFixtureError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFixture,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeFetch:
			return fmt.Sprintf("API error: %s", appErr.Message)
		case ErrorTypeFixture:
			return fmt.Sprintf("Fixture error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrNoToken) {
		return "Error: No access token configured. Set PULSECHECK_TOKEN or pass --token."
	}
	if errors.Is(err, ErrNoFixture) {
		return "Error: No fixture recorded for this endpoint. Run 'pulsecheck check' to create one."
	}
	if errors.Is(err, ErrUnknownEndpoint) {
		return "Error: Unknown endpoint. Run 'pulsecheck endpoints' to list the available ones."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
