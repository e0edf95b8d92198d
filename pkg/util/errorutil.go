package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed by the API.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeCaptchaFailed       = "CAPTCHA_FAILED"
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeStorage             = "STORAGE_ERROR"
	CodeNotification        = "NOTIFICATION_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Exposable reports whether the underlying error text may be shown to clients.
func (e *DomainError) Exposable() bool {
	switch e.Code {
	case CodeStorage, CodeInternal:
		return false
	}
	return true
}

// Detail returns the client-facing error text: field messages for validation
// failures, otherwise the wrapped error.
func (e *DomainError) Detail() string {
	if !e.Exposable() {
		return ""
	}
	if fields, ok := e.Details["fields"].(map[string]string); ok && len(fields) > 0 {
		return joinFieldMessages(fields)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports missing or malformed input. fields maps a field
// name to its message and may be nil.
func NewValidationError(message string, fields map[string]string) error {
	var details map[string]any
	if len(fields) > 0 {
		details = map[string]any{"fields": fields}
	}
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewCaptchaFailed(err error) error {
	return &DomainError{
		Code:       CodeCaptchaFailed,
		Message:    "CAPTCHA verification failed",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewUnsupportedFileType(fileName string) error {
	return &DomainError{
		Code:       CodeUnsupportedFileType,
		Message:    "Only PDF and image files (JPEG, JPG, PNG, GIF) are allowed",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"file": fileName},
	}
}

func NewFileTooLarge(limit int64) error {
	return &DomainError{
		Code:       CodeFileTooLarge,
		Message:    fmt.Sprintf("File exceeds the %d MB limit", limit/(1<<20)),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"limit_bytes": limit},
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorage,
		Message:    "Server error. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewNotificationError(err error) error {
	return &DomainError{
		Code:       CodeNotification,
		Message:    "Failed to send email. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND DomainError.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
