package utils

import (
	"errors"
	"strings"
)

var (
	ErrSessionNotFound     = errors.New("feedback session not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrSessionCompleted    = errors.New("feedback session already completed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingToken        = errors.New("authorization token missing")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrInvalidPagination   = errors.New("invalid pagination parameters")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrArchiveDisabled     = errors.New("export archive is not configured")
	ErrDatabaseError       = errors.New("database error")
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNoResponses  = "NO_RESPONSES"
	CodeInvalidEmail = "INVALID_EMAIL"
)

// FieldError is one problem with one input field. For submissions Field holds
// the question id the answer belongs to.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Code    string
	Message string
	Errors  []FieldError
}

func NewValidationError(message string, errs ...FieldError) *ValidationError {
	return &ValidationError{Code: CodeValidation, Message: message, Errors: errs}
}

func (e *ValidationError) WithCode(code string) *ValidationError {
	e.Code = code
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// HasField reports whether the error lists a problem for field.
func (e *ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}
