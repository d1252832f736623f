package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail carries the serializable parts of an error in API responses
type ErrorDetail struct {
	Message      string                 `json:"message"`
	InternalCode string                 `json:"internal_code,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope returned by the REST layer
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the API error envelope for an error. For marked
// internal errors the hint is preferred over the raw message so internal
// detail does not leak to clients.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message:      err.Error(),
			InternalCode: markerCode(err),
		},
	}

	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.Hint() != "" {
			resp.Error.Message = ie.Hint()
		}
		resp.Error.Details = ie.Details()
	}

	return resp
}

// HTTPStatusFromErr maps a marked error to its HTTP status code.
//
// Declined payments map to 500 for compatibility with the pre-existing API
// contract even though they are a business outcome rather than a server
// fault; callers that want to distinguish them should use IsPaymentDeclined.
func HTTPStatusFromErr(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusForbidden
	case IsInvalidOperation(err):
		return http.StatusBadRequest
	case IsPaymentDeclined(err):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func markerCode(err error) string {
	for _, marker := range []error{
		ErrValidation,
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidOperation,
		ErrPermissionDenied,
		ErrPaymentDeclined,
		ErrDatabase,
		ErrSystem,
		ErrInternal,
	} {
		if errors.Is(err, marker) {
			return marker.Error()
		}
	}
	return ""
}
