// Package errors provides a lightweight structured error type (MeowdocError)
// for category-based classification in the CLI exit-code policy.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a meowdoc error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryProvider   ErrorCategory = "provider"
	CategoryGeneration ErrorCategory = "generation"

	// Processing errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryNav        ErrorCategory = "nav"
	CategoryBootstrap  ErrorCategory = "bootstrap"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the whole run
	SeverityError   ErrorSeverity = "error"   // Error, but the batch continues
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// MeowdocError is a structured error with category, severity, and context
type MeowdocError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for MeowdocError
type ContextFields map[string]any

// Error implements the error interface
func (e *MeowdocError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *MeowdocError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *MeowdocError) WithContext(key string, value any) *MeowdocError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new MeowdocError
func New(category ErrorCategory, severity ErrorSeverity, message string) *MeowdocError {
	return &MeowdocError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new MeowdocError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *MeowdocError {
	return &MeowdocError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if me, ok := err.(*MeowdocError); ok {
		return me.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a MeowdocError
func GetCategory(err error) ErrorCategory {
	if me, ok := err.(*MeowdocError); ok {
		return me.Category
	}
	return CategoryInternal
}

// IsFatal reports whether an error should abort the whole run.
func IsFatal(err error) bool {
	if me, ok := err.(*MeowdocError); ok {
		return me.Severity == SeverityFatal
	}
	return false
}

// ConfigError creates a fatal configuration error
func ConfigError(message string) *MeowdocError {
	return New(CategoryConfig, SeverityFatal, message)
}

// ProviderError creates a fatal provider resolution error
func ProviderError(message string) *MeowdocError {
	return New(CategoryProvider, SeverityFatal, message)
}

// GenerationError wraps a single-file generation failure (batch continues)
func GenerationError(err error, message string) *MeowdocError {
	return Wrap(err, CategoryGeneration, SeverityError, message)
}

// NavError wraps a fatal navigation-document failure
func NavError(err error, message string) *MeowdocError {
	return Wrap(err, CategoryNav, SeverityFatal, message)
}
