package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets a wrapped DomainError match its predefined sentinel by code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors.
//
// ErrUnauthenticated is deliberately undifferentiated: a missing cookie,
// a forged token, an expired refresh token and a failed rotation all
// surface the same way so credential existence never leaks.
var (
	ErrUnauthenticated = NewDomainError("UNAUTHENTICATED", "authentication required")

	// Pass errors
	ErrPassNotFound    = NewDomainError("PASS_NOT_FOUND", "pass not found")
	ErrNotPassTeacher  = NewDomainError("NOT_PASS_TEACHER", "only the assigned teacher may decide this pass")
	ErrNotPassParty    = NewDomainError("NOT_PASS_PARTY", "pass belongs to another student and teacher")
	ErrPassDecided     = NewDomainError("PASS_ALREADY_DECIDED", "pass has already been decided")
	ErrPassStarted     = NewDomainError("PASS_ALREADY_STARTED", "pass start time has already passed")
	ErrInvalidDecision = NewDomainError("INVALID_DECISION", "decision must be APPROVED or REJECTED")

	// User errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrNotTeacher   = NewDomainError("NOT_TEACHER", "user is not a teacher")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "INVALID_DECISION", "PASS_ALREADY_STARTED":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHENTICATED":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "NOT_PASS_TEACHER", "NOT_PASS_PARTY", "NOT_TEACHER":
		return http.StatusForbidden

	// 404 Not Found
	case "PASS_NOT_FOUND", "USER_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "PASS_ALREADY_DECIDED":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
