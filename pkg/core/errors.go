package core

import (
	"fmt"
)

// DefinitionError indicates a malformed or colliding service or operation
// declaration. Aggregate validators collect every problem they find into a
// single DefinitionError so the implementer can fix them in one pass.
type DefinitionError struct {
	msg string
}

// NewDefinitionError creates a DefinitionError with a formatted message.
func NewDefinitionError(format string, args ...any) *DefinitionError {
	return &DefinitionError{msg: fmt.Sprintf(format, args...)}
}

func (e *DefinitionError) Error() string {
	return "contracts: " + e.msg
}

// TypeMismatchError indicates a conflict between declared and inferred
// types, or a variance violation between a handler and its definition.
type TypeMismatchError struct {
	msg string
}

// NewTypeMismatchError creates a TypeMismatchError with a formatted message.
func NewTypeMismatchError(format string, args ...any) *TypeMismatchError {
	return &TypeMismatchError{msg: fmt.Sprintf(format, args...)}
}

func (e *TypeMismatchError) Error() string {
	return "contracts: " + e.msg
}

// ConfigurationError indicates missing registration metadata, a handler set
// that does not match its definition, or construction misuse.
type ConfigurationError struct {
	msg string
	err error
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError wraps an underlying error as a ConfigurationError.
func WrapConfigurationError(err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...), err: err}
}

func (e *ConfigurationError) Error() string {
	if e.err != nil {
		return "contracts: " + e.msg + ": " + e.err.Error()
	}
	return "contracts: " + e.msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.err
}

// MissingImplementationError indicates that a definition operation has no
// corresponding handler method.
type MissingImplementationError struct {
	Service    string
	MethodName string
}

func (e *MissingImplementationError) Error() string {
	return fmt.Sprintf("contracts: service %q requires method %q but the handler does not implement it", e.Service, e.MethodName)
}

// UnsupportedOperationError indicates a call to a lifecycle method that is
// unreachable on the handler, such as fetching the result of an operation
// that responded synchronously. Unlike the other errors in this package it
// surfaces at call time, not declaration time.
type UnsupportedOperationError struct {
	msg string
}

// NewUnsupportedOperationError creates an UnsupportedOperationError with a
// formatted message.
func NewUnsupportedOperationError(format string, args ...any) *UnsupportedOperationError {
	return &UnsupportedOperationError{msg: fmt.Sprintf(format, args...)}
}

func (e *UnsupportedOperationError) Error() string {
	return "contracts: " + e.msg
}
