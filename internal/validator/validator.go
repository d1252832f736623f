package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "github.com/sendwell/sendwell/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest validates a request struct using its `validate` tags and
// returns a marked validation error listing the failing fields
func ValidateRequest(req interface{}) error {
	if err := getValidator().Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ierr.WithError(err).
				WithHint("Invalid request payload").
				Mark(ierr.ErrValidation)
		}

		details := make(map[string]interface{}, len(validationErrors))
		for _, fe := range validationErrors {
			details[fe.Field()] = fe.Tag()
		}

		return ierr.NewError("request validation failed").
			WithHint("Please check the request payload").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
