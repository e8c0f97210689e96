package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/http/response"
	"github.com/listenupapp/pressroom/internal/store"
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
	var fields domainerrors.FieldErrors

	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			if domainErr.Code == domainerrors.CodeInternal {
				slog.Error("Internal error", "error", err)
			}
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    string(response.CodeForStatus(storeErr.HTTPCode())),
				Message: storeErr.Message,
			}
		}

		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if fields == nil {
				fields = domainerrors.FieldErrors{}
			}
			fields[fieldName(detail.Location)] = detail.Message
		}
	}

	// Schema violations share the VALIDATION code and field map of domain validation.
	if status == http.StatusUnprocessableEntity || (status == http.StatusBadRequest && fields != nil) {
		apiErr := &APIError{
			status:  http.StatusBadRequest,
			Code:    string(domainerrors.CodeValidation),
			Message: message,
		}
		if fields != nil {
			apiErr.Details = fields
		}
		return apiErr
	}

	if status >= http.StatusInternalServerError {
		for _, err := range errs {
			slog.Error("Unhandled API error", "status", status, "error", err)
		}
		message = "internal server error"
	}

	return &APIError{
		status:  status,
		Code:    string(response.CodeForStatus(status)),
		Message: message,
	}
}

// fieldName turns a huma location like "body.category_ids[0]" into "category_ids".
func fieldName(location string) string {
	for _, prefix := range []string{"body.", "query.", "path.", "header."} {
		if rest, ok := strings.CutPrefix(location, prefix); ok {
			location = rest
			break
		}
	}
	if i := strings.IndexByte(location, '['); i > 0 {
		location = location[:i]
	}
	if location == "" {
		return "body"
	}
	return location
}
