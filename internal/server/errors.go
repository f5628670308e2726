package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/outliers/druknation/internal/answer"
	"github.com/outliers/druknation/internal/schemas"
)

// ErrInvalidCredentials indicates a wrong operator password.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid operator password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrFeatureDisabled indicates an optional subsystem is not configured.
type ErrFeatureDisabled struct {
	Feature string
}

func (e *ErrFeatureDisabled) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidInput *answer.InvalidInputError
		notInit      *answer.NotInitializedError
		notLoaded    *answer.ContentNotLoadedError
		upstream     *answer.UpstreamError
		validation   *ErrValidation
		schemaErr    *schemas.ValidationError
		creds        *ErrInvalidCredentials
		disabled     *ErrFeatureDisabled
	)
	switch {
	case errors.As(err, &invalidInput), errors.As(err, &validation), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &notInit), errors.As(err, &notLoaded), errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
