// Package errors provides custom error types for the ncreconcile system.
// These errors enable programmatic error checking with errors.Is and errors.As
// and carry enough context (station, file, variable) to be logged on their own.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers do not need both error packages.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the ncreconcile system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAttribute indicates that a required metadata attribute is absent
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrUnsupportedDimensionality indicates a variable with too many dimensions
	ErrUnsupportedDimensionality = errors.New("unsupported dimensionality")

	// ErrGridRebuild indicates that a vertical grid rebuild could not be completed
	ErrGridRebuild = errors.New("grid rebuild failed")

	// ErrOverwriteRequired indicates that a rebuilt file may not replace the original
	ErrOverwriteRequired = errors.New("overwrite required")

	// ErrIO indicates a failed open, close, write or rename
	ErrIO = errors.New("io failure")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MissingAttributeError is returned when a variable (or the file itself, when
// Variable is empty) lacks a required descriptive attribute.
type MissingAttributeError struct {
	Path      string
	Variable  string
	Attribute string
}

// Error implements the error interface
func (e *MissingAttributeError) Error() string {
	target := "global attributes"
	if e.Variable != "" {
		target = "variable " + e.Variable
	}
	if e.Path != "" {
		return fmt.Sprintf("%s of %s has no %s attribute", target, e.Path, e.Attribute)
	}
	return fmt.Sprintf("%s has no %s attribute", target, e.Attribute)
}

// Is implements errors.Is support
func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}

// NewMissingAttributeError creates a new MissingAttributeError
func NewMissingAttributeError(variable, attribute string) *MissingAttributeError {
	return &MissingAttributeError{Variable: variable, Attribute: attribute}
}

// UnsupportedDimensionalityError is returned for profile variables that are
// not indexed by (time) or (time, vertical level).
type UnsupportedDimensionalityError struct {
	Path       string
	Variable   string
	Dimensions []string
	Message    string
}

// Error implements the error interface
func (e *UnsupportedDimensionalityError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("cannot handle %d dimensions", len(e.Dimensions))
	}
	if e.Path != "" {
		return fmt.Sprintf("variable %s in %s %v: %s", e.Variable, e.Path, e.Dimensions, msg)
	}
	return fmt.Sprintf("variable %s %v: %s", e.Variable, e.Dimensions, msg)
}

// Is implements errors.Is support
func (e *UnsupportedDimensionalityError) Is(target error) bool {
	return target == ErrUnsupportedDimensionality
}

// NewUnsupportedDimensionalityError creates a new UnsupportedDimensionalityError
func NewUnsupportedDimensionalityError(variable string, dims []string, message string) *UnsupportedDimensionalityError {
	return &UnsupportedDimensionalityError{Variable: variable, Dimensions: dims, Message: message}
}

// GridRebuildError represents a failure while rebuilding a file onto the
// canonical vertical grid.
type GridRebuildError struct {
	Path     string
	Variable string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *GridRebuildError) Error() string {
	var msg string
	switch {
	case e.Variable != "":
		msg = fmt.Sprintf("grid rebuild of %s failed at variable %s: %s", e.Path, e.Variable, e.Message)
	default:
		msg = fmt.Sprintf("grid rebuild of %s failed: %s", e.Path, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *GridRebuildError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *GridRebuildError) Is(target error) bool {
	return target == ErrGridRebuild
}

// NewGridRebuildError creates a new GridRebuildError
func NewGridRebuildError(path, variable, message string, err error) *GridRebuildError {
	return &GridRebuildError{
		Path:     path,
		Variable: variable,
		Message:  message,
		Err:      err,
	}
}

// OverwriteRequiredError is returned when a rebuilt file exists (or would
// exist) but the overwrite policy forbids replacing the original.
type OverwriteRequiredError struct {
	Path     string
	TempPath string // set when the rebuilt file was kept on disk
}

// Error implements the error interface
func (e *OverwriteRequiredError) Error() string {
	if e.TempPath != "" {
		return fmt.Sprintf("replacing %s needs overwrite to be enabled, rebuilt file kept at %s", e.Path, e.TempPath)
	}
	return fmt.Sprintf("replacing %s needs overwrite to be enabled", e.Path)
}

// Is implements errors.Is support
func (e *OverwriteRequiredError) Is(target error) bool {
	return target == ErrOverwriteRequired
}

// NewOverwriteRequiredError creates a new OverwriteRequiredError
func NewOverwriteRequiredError(path, tempPath string) *OverwriteRequiredError {
	return &OverwriteRequiredError{Path: path, TempPath: tempPath}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "open", "read", "write", "close", "rename", "create", "remove"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "ncml", "yaml", ...
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingAttribute checks if an error is a missing attribute error
func IsMissingAttribute(err error) bool {
	return errors.Is(err, ErrMissingAttribute)
}

// IsOverwriteRequired checks if an error was caused by the overwrite policy
func IsOverwriteRequired(err error) bool {
	return errors.Is(err, ErrOverwriteRequired)
}

// IsIO checks if an error is an I/O error
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WithPath attaches a file path to path-carrying error types that were
// created before the path was known. Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var missing *MissingAttributeError
	if errors.As(err, &missing) && missing.Path == "" {
		missing.Path = path
	}
	var dims *UnsupportedDimensionalityError
	if errors.As(err, &dims) && dims.Path == "" {
		dims.Path = path
	}
	var rebuild *GridRebuildError
	if errors.As(err, &rebuild) && rebuild.Path == "" {
		rebuild.Path = path
	}
	return err
}
