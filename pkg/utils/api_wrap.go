package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Context keys shared with the middleware package.
const (
	TraceIDKey      = "trace_id"
	ErrorDetailsKey = "expose_error_details"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code      string       `json:"code"`
	Timestamp string       `json:"timestamp"`
	Errors    []FieldError `json:"errors,omitempty"`
	Details   string       `json:"details,omitempty"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
		TraceID:   c.GetString(TraceIDKey),
	})
}

func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Error: &APIError{
			Code:      code,
			Timestamp: timestamp(),
		},
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, status int, code, message string) {
	RespondError(c, status, code, message)
	c.Abort()
}

func RespondValidationError(c *gin.Context, verr *ValidationError) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: verr.Message,
		TraceID: c.GetString(TraceIDKey),
		Error: &APIError{
			Code:      verr.Code,
			Timestamp: timestamp(),
			Errors:    verr.Errors,
		},
	})
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []errorMapping{
	{ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND", "Feedback session not found"},
	{ErrQuestionNotFound, http.StatusNotFound, "NOT_FOUND", "Question not found"},
	{ErrSessionCompleted, http.StatusConflict, "SESSION_ALREADY_COMPLETED", "Feedback session already completed"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials"},
	{ErrMissingToken, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header missing or invalid"},
	{ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"},
	{ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED", "Token expired"},
	{ErrTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED", "Token has been revoked"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Forbidden: insufficient permissions"},
	{ErrInvalidPagination, http.StatusBadRequest, CodeValidation, "limit must be between 1 and 1000 and offset must not be negative"},
	{ErrInvalidExportFormat, http.StatusBadRequest, CodeValidation, "format must be json or csv"},
	{ErrArchiveDisabled, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Export archive is not configured"},
}

// HandleServiceError is the single place where service errors become HTTP
// responses. Unknown errors are answered with a generic 500; the underlying
// message is only attached when the request runs in development mode.
func HandleServiceError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		RespondValidationError(c, verr)
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			RespondError(c, m.status, m.code, m.message)
			return
		}
	}

	_ = c.Error(err)
	apiErr := &APIError{Code: "INTERNAL_ERROR", Timestamp: timestamp()}
	if c.GetBool(ErrorDetailsKey) {
		apiErr.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, APIResponse{
		Success: false,
		Message: "Internal server error",
		TraceID: c.GetString(TraceIDKey),
		Error:   apiErr,
	})
}
