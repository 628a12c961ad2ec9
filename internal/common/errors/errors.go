// internal/common/errors/errors.go

// Package errors provides standardized error handling for the concierge engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionLoadFailed ErrorCode = "SESSION_LOAD_FAILED"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"

	ErrCodeUnitNotFound         ErrorCode = "UNIT_NOT_FOUND"
	ErrCodeReservationConflict  ErrorCode = "RESERVATION_CONFLICT"
	ErrCodeInventoryQueryFailed ErrorCode = "INVENTORY_QUERY_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationTimeout    ErrorCode = "NOTIFICATION_TIMEOUT"

	ErrCodeResponderFailed  ErrorCode = "RESPONDER_FAILED"
	ErrCodeResponderTimeout ErrorCode = "RESPONDER_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSessionLoadFailedError creates a retryable session store error.
func NewSessionLoadFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionLoadFailed,
		Message:   "Failed to load conversation session",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionSaveFailedError creates a retryable session store error.
func NewSessionSaveFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionSaveFailed,
		Message:   "Failed to persist conversation session",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnitNotFoundError creates a non-retryable inventory error.
func NewUnitNotFoundError(unitID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnitNotFound,
		Message:   "Unit not found in inventory",
		Details:   fmt.Sprintf("unitId: %s", unitID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReservationConflictError marks a lost reservation race. The orchestrator
// recovers by offering alternatives, so the error is non-retryable on the
// same unit.
func NewReservationConflictError(unitID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReservationConflict,
		Message:   "Unit already reserved by another session",
		Details:   fmt.Sprintf("unitId: %s", unitID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInventoryQueryFailedError creates a retryable inventory store error.
func NewInventoryQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInventoryQueryFailed,
		Message:   "Inventory query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationTimeoutError creates a retryable notification timeout error.
func NewNotificationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationTimeout,
		Message:   "Notification attempt timed out",
		Details:   "send attempt exceeded its timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponderFailedError creates a retryable responder error. The caller
// substitutes deterministic fallback text instead of surfacing it.
func NewResponderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponderFailed,
		Message:   "Responder API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponderTimeoutError creates a retryable responder timeout error.
func NewResponderTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeResponderTimeout,
		Message:   "Responder API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionLoadFailed,
		ErrCodeSessionSaveFailed,
		ErrCodeInventoryQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeNotificationTimeout,
		ErrCodeResponderFailed:
		return 2

	case ErrCodeResponderTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}
