package errors

import (
	"github.com/cockroachdb/errors"
)

// IsNotFound returns true if the error is marked as a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is marked as a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAlreadyExists returns true if the error is marked as an already-exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidOperation returns true if the error is marked as an invalid operation
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied returns true if the error is marked as permission denied
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsPaymentDeclined returns true if the error is marked as a declined payment
func IsPaymentDeclined(err error) bool {
	return errors.Is(err, ErrPaymentDeclined)
}

// IsDatabase returns true if the error is marked as a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsInternal returns true if the error is marked as an internal or system error
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal) || errors.Is(err, ErrSystem)
}
