// Package response defines the JSON envelope every API response uses and
// writers for the handful of routes served outside huma.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/store"
)

// Version is the envelope format version sent as "v".
const Version = 1

// Envelope is the success shape: {"v":1,"success":true,"data":...}.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope is the failure shape: {"v":1,"success":false,"error":msg,"code":...,"details":...}.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// NewEnvelope wraps data in a success envelope.
func NewEnvelope(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// NewErrorEnvelope builds a failure envelope.
func NewErrorEnvelope(code domainerrors.Code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Version: Version,
		Error:   message,
		Code:    string(code),
		Details: details,
	}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// Success writes a 200 success envelope.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, NewEnvelope(data), logger)
}

// Error writes a failure envelope with the status implied by code.
func Error(w http.ResponseWriter, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, code.HTTPStatus(), NewErrorEnvelope(code, message, nil), logger)
}

// TooManyRequests writes a 429 envelope.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	w.Header().Set("Retry-After", "60")
	Error(w, domainerrors.CodeRateLimited, message, logger)
}

// NotFound writes a 404 envelope.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.CodeNotFound, message, logger)
}

// InternalError writes a 500 envelope.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.CodeInternal, message, logger)
}

// HandleError writes the envelope matching err. Domain errors keep their code
// and details, store errors map by status, anything else is logged and becomes 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		JSON(w, domainErr.HTTPStatus(), NewErrorEnvelope(domainErr.Code, domainErr.Message, domainErr.Details), logger)
		return
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		code := CodeForStatus(storeErr.HTTPCode())
		JSON(w, storeErr.HTTPCode(), NewErrorEnvelope(code, storeErr.Message, nil), logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}

// CodeForStatus maps an HTTP status to the closest error code.
func CodeForStatus(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusForbidden:
		return domainerrors.CodeForbidden
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	default:
		return domainerrors.CodeInternal
	}
}
