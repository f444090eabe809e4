package api

import (
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/flixlens/flixlens/internal/errors"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fields []string
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		// Request validation failures from huma itself.
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			fields = append(fields, fmt.Sprintf("%s: %s", detail.Location, detail.Message))
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    string(domainerrors.CodeForStatus(status)),
		Message: message,
	}
	if len(fields) > 0 {
		apiErr.Details = fields
	}
	return apiErr
}

// mapError converts domain errors into *APIError so huma reads the status
// from the error itself. Other errors pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return newAPIError(domainErr.HTTPStatus(), domainErr.Message, domainErr)
	}
	return err
}
