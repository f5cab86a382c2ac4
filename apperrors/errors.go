// Package apperrors defines the typed errors the service raises internally.
// Handlers map them to HTTP status codes in exactly one place
// (utils/response.FromError); nothing below the handlers writes a response.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError means the client sent malformed or missing input (400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError with the given client-facing message
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError means the requested resource does not exist (404)
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound builds a NotFoundError with the given message
func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

// UnauthorizedError means a missing, invalid, or expired credential (401)
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// Unauthorized builds an UnauthorizedError with the given message
func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// InferenceError means the upstream classifier call failed. It never reaches
// a client: the report pipeline absorbs it and substitutes the fallback
// classification.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("ML inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Inference wraps an upstream classifier failure
func Inference(err error) error {
	return &InferenceError{Err: err}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnauthorized reports whether err is an UnauthorizedError
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsInference reports whether err is an InferenceError
func IsInference(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}
