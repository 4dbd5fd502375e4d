package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/linkstashapp/linkstash-server/internal/errors"
)

// errorPayload is the wire shape of an error, nested under "error".
type errorPayload struct {
	Type    string `json:"type" doc:"Machine-readable error type"`
	Message string `json:"message" doc:"Human-readable error message"`
}

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure:
//
//	{"error": {"type": "bookmark-already-exists", "message": "..."}}
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status int
	Detail errorPayload `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to emit domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		// Domain errors carry their own status and type tag.
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status: domainErr.HTTPStatus(),
					Detail: errorPayload{
						Type:    string(domainErr.Code),
						Message: domainErr.Message,
					},
				}
			}
		}

		return &APIError{
			status: status,
			Detail: errorPayload{
				Type:    statusToCode(status),
				Message: message,
			},
		}
	}
}

// statusToCode maps bare HTTP status codes to domain error type tags.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeNotLoggedIn)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeTooManyRequests)
	default:
		return string(domainerrors.CodeInternal)
	}
}
