package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Marker errors used to classify failures across the codebase. Callers attach
// a marker with Mark and the REST layer maps markers to HTTP status codes.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrPaymentDeclined  = errors.New("payment_declined")
	ErrDatabase         = errors.New("database_error")
	ErrSystem           = errors.New("system_error")
	ErrInternal         = errors.New("internal_error")
)

// InternalError is the rich error type carried through the service layers. It
// wraps a cause, an optional user-facing hint and reportable details, and is
// marked with exactly one of the marker errors above.
type InternalError struct {
	cause   error
	hint    string
	details map[string]interface{}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

// Unwrap returns the underlying cause
func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user-facing hint, if any
func (e *InternalError) Hint() string {
	return e.hint
}

// Details returns the reportable details attached to this error
func (e *InternalError) Details() map[string]interface{} {
	return e.details
}

// NewError starts building an error from a message
func NewError(message string) *InternalError {
	return &InternalError{cause: errors.New(message)}
}

// NewErrorf starts building an error from a format string
func NewErrorf(format string, args ...interface{}) *InternalError {
	return &InternalError{cause: errors.Newf(format, args...)}
}

// WithError starts building an error that wraps an existing error
func WithError(err error) *InternalError {
	return &InternalError{cause: err}
}

// WithHint attaches a human-readable hint safe to surface to API clients
func (e *InternalError) WithHint(hint string) *InternalError {
	e.hint = hint
	return e
}

// WithHintf attaches a formatted hint
func (e *InternalError) WithHintf(format string, args ...interface{}) *InternalError {
	e.hint = fmt.Sprintf(format, args...)
	return e
}

// WithReportableDetails attaches structured details included in the API
// error response and in logs
func (e *InternalError) WithReportableDetails(details map[string]interface{}) *InternalError {
	e.details = details
	return e
}

// Mark finalizes the builder by classifying the error with a marker
func (e *InternalError) Mark(marker error) error {
	return errors.Mark(e, marker)
}
