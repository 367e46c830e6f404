package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients. WHK codes are seen by the payment gateway,
// the rest by operators using the admin API.
const (
	CodeSignature        = "WHK_001"
	CodeMalformedPayload = "WHK_002"
	CodeUnreadableBody   = "WHK_003"
	CodeMethodNotAllowed = "WHK_004"
	CodeStoreUnavailable = "WHK_005"

	CodeInvalidToken = "AUTH_001"
	CodeNotFound     = "PAY_004"
	CodeValidation   = "REQ_001"
	CodeRateLimited  = "RATE_001"

	CodeInternal = "SYS_001"
	CodeUnknown  = "SYS_000"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // internal cause, never sent to the client
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newErr(code, message string, httpStatus int, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: cause}
}

// CodeOf returns the client-facing code carried by err, CodeUnknown for
// errors that are not AppErrors and "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsRetryable reports whether the sender should retry the same request.
// The gateway redelivers on any 5xx.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus >= http.StatusInternalServerError
	}
	return err != nil
}

// ErrSignatureVerification covers a missing header, a wrong digest and a
// missing secret alike. Callers must not tell them apart in responses.
func ErrSignatureVerification(err error) *AppError {
	return newErr(CodeSignature, "Signature verification failed", http.StatusBadRequest, err)
}

func ErrMalformedPayload(err error) *AppError {
	return newErr(CodeMalformedPayload, "Malformed payload", http.StatusBadRequest, err)
}

// ErrUnreadableBody is also what an oversized body produces.
func ErrUnreadableBody(err error) *AppError {
	return newErr(CodeUnreadableBody, "Invalid body", http.StatusBadRequest, err)
}

func ErrMethodNotAllowed() *AppError {
	return newErr(CodeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed, nil)
}

func ErrStoreUnavailable(err error) *AppError {
	return newErr(CodeStoreUnavailable, "Payment store unavailable", http.StatusServiceUnavailable, err)
}

func ErrInvalidToken() *AppError {
	return newErr(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized, nil)
}

func ErrNotFound(entity string) *AppError {
	return newErr(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound, nil)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return newErr(CodeValidation, message, http.StatusBadRequest, nil)
}

func ErrRateLimitExceeded() *AppError {
	return newErr(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests, nil)
}

func ErrDatabaseError(err error) *AppError {
	return newErr(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

func InternalError(err error) *AppError {
	return newErr(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
