package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/export"
	"github.com/rezkam/taskmaster/internal/habit"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// FieldError ties a validation error to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// Invalid wraps err as a validation failure of field.
func Invalid(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

const payloadTooLargeJSON = `{"error":{"code":"PAYLOAD_TOO_LARGE","message":"request body exceeds size limit","details":[]}}`

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	write(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// MethodNotAllowed sends a 405 Method Not Allowed error.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, "METHOD_NOT_ALLOWED", "method not allowed", http.StatusMethodNotAllowed)
}

// PayloadTooLarge sends a 413 Request Entity Too Large error.
func PayloadTooLarge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_, _ = w.Write([]byte(payloadTooLargeJSON))
}

// InternalError sends a 500 Internal Server Error.
// The error is logged server-side; the client only gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *FieldError
	if errors.As(err, &fe) {
		ValidationError(w, fe.Field, fe.Err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidPriority):
		ValidationError(w, "priority", "invalid priority level")
	case errors.Is(err, domain.ErrUnknownCategory):
		ValidationError(w, "category", "unknown category")
	case errors.Is(err, domain.ErrInvalidDate):
		ValidationError(w, "date", err.Error())
	case errors.Is(err, domain.ErrInvalidClock):
		ValidationError(w, "time", err.Error())
	case errors.Is(err, domain.ErrEmptyUpdateMask),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrFieldRequired):
		ValidationError(w, "update", err.Error())
	case errors.Is(err, habit.ErrInvalidFrequency):
		ValidationError(w, "frequency", err.Error())
	case errors.Is(err, export.ErrUnknownFormat):
		ValidationError(w, "format", err.Error())

	default:
		InternalError(w, r, err)
	}
}
