// Package apperrors defines the error taxonomy shared by the store gateway
// and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized means the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers both missing records and records owned by someone else.
	ErrNotFound = errors.New("not found")
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any storage call when a payload
// violates its schema.
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Details: []FieldError{{Field: field, Message: message}},
	}
}

// ConflictError reports a uniqueness violation, e.g. a second budget for the
// same category.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// InternalError wraps a storage or provider failure.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// Internal wraps err as an InternalError unless it already belongs to the
// taxonomy, in which case it is returned unchanged.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

// Classified reports whether err is one of the non-internal kinds.
func Classified(err error) bool {
	var ve *ValidationError
	var ce *ConflictError
	var ie *InternalError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.As(err, &ve) ||
		errors.As(err, &ce) ||
		errors.As(err, &ie)
}

// HTTPStatus maps an error to the status code the API answers with.
// Conflicts are surfaced like validation failures.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.As(err, &ce):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Details returns the field-level detail list for validation and conflict
// errors, nil otherwise.
func Details(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Details
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return []FieldError{{Field: ce.Field, Message: ce.Message}}
	}
	return nil
}
