// Package errors defines the structured API error responses.
package errors

import (
	"net/http"

	"github.com/go-chi/render"

	"sgjobs/internal/infrastructure"
)

// APIError is the JSON error envelope every handler returns on failure.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError carries a per-field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError carrying extra detail.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for the common cases.
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value")

	ErrNotFound      = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrTableNotFound = New(http.StatusNotFound, "TABLE_NOT_FOUND", "Gold table not found")

	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	ErrInternalServer     = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrArtifactUnreadable = New(http.StatusInternalServerError, "ARTIFACT_UNREADABLE", "Pipeline artifact could not be read")

	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
	ErrDataNotReady       = New(http.StatusServiceUnavailable, "DATA_NOT_READY", "Pipeline has not produced this artifact yet")
)

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// TableNotFoundError names the unknown table in the response.
func TableNotFoundError(table string) *APIError {
	return NewWithDetails(http.StatusNotFound, "TABLE_NOT_FOUND", "Gold table not found", table)
}

// ArtifactError wraps a storage failure without leaking the path.
func ArtifactError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "ARTIFACT_UNREADABLE",
		"Pipeline artifact could not be read", err.Error())
}

// RenderError writes an APIError to the response, attaching the request
// trace ID when present.
func RenderError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	withTrace := *apiErr
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		withTrace.TraceID = traceID
	}
	render.Render(w, r, &withTrace)
}
