package errors

import (
	"fmt"
	"net/http"

	"github.com/NomadCrew/comment-board/logger"
)

type ErrorType string

const (
	ValidationError  ErrorType = "VALIDATION_ERROR"
	PersistenceError ErrorType = "PERSISTENCE_ERROR"
	CacheError       ErrorType = "CACHE_ERROR"
	ServerError      ErrorType = "SERVER_ERROR"
	RateLimitError   ErrorType = "RATE_LIMITED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status code the error should be rendered with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// ValidationFailed reports a request whose input was rejected before it reached
// the mutation layer.
func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// PersistenceFailed reports a record store that could not be read or written.
// The raw error is logged; clients only see a retry hint.
func PersistenceFailed(err error) *AppError {
	logger.GetLogger().Errorw("Record store error", "error", err)
	return &AppError{
		Type:       PersistenceError,
		Message:    "Storage operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// CacheInvalidationFailed wraps a failure to propagate an invalidation signal.
func CacheInvalidationFailed(tag string, err error) *AppError {
	return &AppError{
		Type:       CacheError,
		Message:    "Cache invalidation failed",
		Detail:     fmt.Sprintf("tag: %s", tag),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case PersistenceError, CacheError:
		return http.StatusInternalServerError
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
