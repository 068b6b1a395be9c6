/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a database, container or item does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when creating a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input or configuration validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrThrottled is returned when the service rejects a request for exceeding provisioned throughput
	ErrThrottled = errors.New("request throttled")

	// ErrNoKeyMap is returned when no key map is registered for a type
	ErrNoKeyMap = errors.New("no key map found for type")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Kind string
	Key  string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// AlreadyExistsError represents an error when a resource already exists
type AlreadyExistsError struct {
	Kind string
	Key  string
	Err  error
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

func (e *AlreadyExistsError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ThrottledError is returned when the service asks the caller to back off
type ThrottledError struct {
	Operation string
	Err       error
}

func (e *ThrottledError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s throttled: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s throttled", e.Operation)
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}

func (e *ThrottledError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// WrapNotFound creates a NotFoundError carrying the backend error as its cause
func WrapNotFound(kind, key string, cause error) error {
	return &NotFoundError{Kind: kind, Key: key, Err: cause}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Kind: kind, Key: key}
}

// WrapAlreadyExists creates an AlreadyExistsError carrying the backend error as its cause
func WrapAlreadyExists(kind, key string, cause error) error {
	return &AlreadyExistsError{Kind: kind, Key: key, Err: cause}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewThrottledError creates a new ThrottledError
func NewThrottledError(operation string, cause error) error {
	return &ThrottledError{Operation: operation, Err: cause}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsThrottled checks if an error is a throttling error
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}
