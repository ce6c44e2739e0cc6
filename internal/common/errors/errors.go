// Package errors provides standardized error handling for the ScholarStream
// client runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Identity errors
const (
	ErrCodeCredential        ErrorCode = "CREDENTIAL_ERROR"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	ErrCodePopupClosed       ErrorCode = "POPUP_CLOSED"
	ErrCodeTokenIssueFailed  ErrorCode = "TOKEN_ISSUE_FAILED"
)

// Checkout errors
const (
	ErrCodeCard              ErrorCode = "CARD_ERROR"
	ErrCodePaymentInit       ErrorCode = "PAYMENT_INIT_FAILED"
	ErrCodeUnexpectedPayment ErrorCode = "UNEXPECTED_PAYMENT_ERROR"
)

// Resource and transport errors
const (
	ErrCodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthorization        ErrorCode = "AUTHORIZATION_ERROR"
	ErrCodeRoleResolutionFailed ErrorCode = "ROLE_RESOLUTION_FAILED"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeNetwork              ErrorCode = "NETWORK_ERROR"
	ErrCodeBackend              ErrorCode = "BACKEND_ERROR"
)

// ClientError represents a structured application error.
type ClientError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("ClientError[%s]: %s", e.Code, e.Message)
}

// --- Identity constructors ---

// NewCredentialError covers sign-up rejections: malformed or duplicate
// email, weak password. The provider's policy decides; we carry its reason.
func NewCredentialError(details string) *ClientError {
	return &ClientError{
		Code:      ErrCodeCredential,
		Message:   "Sign-up rejected by identity provider",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialError covers sign-in rejections. The provider may
// collapse "not found" and "wrong password" into one code; so do we.
func NewInvalidCredentialError(details string) *ClientError {
	return &ClientError{
		Code:      ErrCodeInvalidCredential,
		Message:   "Invalid email or password",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPopupClosedError is returned when the user aborts a federated sign-in.
func NewPopupClosedError() *ClientError {
	return &ClientError{
		Code:      ErrCodePopupClosed,
		Message:   "Federated sign-in window was closed",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenIssueError covers bearer-token issuance failures. Not fatal: the
// session stays authenticated but unauthorized for secure calls.
func NewTokenIssueError(err error) *ClientError {
	return &ClientError{
		Code:      ErrCodeTokenIssueFailed,
		Message:   "Failed to obtain backend bearer token",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// --- Checkout constructors ---

// NewCardError covers card tokenization rejections, reported inline with
// no side effects.
func NewCardError(message string) *ClientError {
	return &ClientError{
		Code:      ErrCodeCard,
		Message:   "Card was rejected",
		Details:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentInitError covers payment-intent creation failures. Card
// collection must not proceed without a client secret.
func NewPaymentInitError(err error) *ClientError {
	return &ClientError{
		Code:      ErrCodePaymentInit,
		Message:   "Failed to initialize payment",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedPaymentError covers anything unexpected between card
// collection and confirmation. No record is written on this path.
func NewUnexpectedPaymentError(err error) *ClientError {
	return &ClientError{
		Code:      ErrCodeUnexpectedPayment,
		Message:   "An unexpected error occurred during payment",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// --- Resource and transport constructors ---

func NewNotFoundError(resource, id string) *ClientError {
	return &ClientError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthorizationError is produced by the secure client on 401/403 and is
// handled centrally (forced sign-out plus redirect), never per caller.
func NewAuthorizationError(status int, path string) *ClientError {
	return &ClientError{
		Code:      ErrCodeAuthorization,
		Message:   "Request was not authorized",
		Details:   fmt.Sprintf("status: %d, path: %s", status, path),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status, "path": path},
		Timestamp: time.Now().UTC(),
	}
}

func NewRoleResolutionError(err error) *ClientError {
	return &ClientError{
		Code:      ErrCodeRoleResolutionFailed,
		Message:   "Failed to resolve user role",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(details string) *ClientError {
	return &ClientError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNetworkError(err error) *ClientError {
	return &ClientError{
		Code:      ErrCodeNetwork,
		Message:   "Network request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendError covers non-2xx responses that carry a backend message.
func NewBackendError(status int, body string) *ClientError {
	return &ClientError{
		Code:      ErrCodeBackend,
		Message:   fmt.Sprintf("Backend returned status %d", status),
		Details:   body,
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// --- Utility functions ---

// CodeOf returns the error code of err, or empty when err is not a
// ClientError.
func CodeOf(err error) ErrorCode {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// HasCode reports whether err is a ClientError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsRetryable reports whether err is a retryable ClientError.
func IsRetryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}
