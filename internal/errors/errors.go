package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Rate limiting
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Status  string              `json:"status"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a 422 payload with per-field messages.
func NewValidationError(message string, fields map[string][]string) *APIError {
	return &APIError{
		Status:  "error",
		Code:    ErrCodeValidationFailed,
		Message: message,
		Errors:  fields,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthenticated."
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// UnprocessableEntity sends a 422 response for a single field.
func UnprocessableEntity(c *gin.Context, field, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewValidationError(message, map[string][]string{
		field: {message},
	}))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeTooManyRequests, "Too Many Attempts."))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// FieldError is implemented by decoding errors that know which request
// field they belong to, such as an unparseable date.
type FieldError interface {
	error
	Field() string
}

// ValidationFailed converts a binding error into a 422 response. Errors that
// cannot be attributed to a field (malformed JSON) produce a 400.
func ValidationFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		RespondWithError(c, http.StatusUnprocessableEntity, NewValidationError(firstMessage(verrs), fields))
		return
	}

	var ferr FieldError
	if stderrors.As(err, &ferr) {
		UnprocessableEntity(c, ferr.Field(), ferr.Error())
		return
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		UnprocessableEntity(c, typeErr.Field, "The "+humanize(typeErr.Field)+" field has an invalid type.")
		return
	}

	BadRequest(c, "Invalid request body")
}

func firstMessage(verrs validator.ValidationErrors) string {
	msg := fieldMessage(verrs[0])
	if len(verrs) > 1 {
		msg += " (and more errors)"
	}
	return msg
}
