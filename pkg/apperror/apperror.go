package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidInterval       = "INVALID_INTERVAL"
	CodePastStartTime         = "PAST_START_TIME"
	CodeAdvanceWindowExceeded = "ADVANCE_WINDOW_EXCEEDED"
	CodeComputerNotFound      = "COMPUTER_NOT_FOUND"
	CodeComputerUnavailable   = "COMPUTER_UNAVAILABLE"
	CodeBookingConflict       = "BOOKING_CONFLICT"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeBookingNotFound       = "BOOKING_NOT_FOUND"
	CodeInvalidUnlock         = "INVALID_UNLOCK"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAuthRequired          = "AUTH_REQUIRED"
	CodeAccountBanned         = "ACCOUNT_BANNED"
	CodeForbidden             = "FORBIDDEN"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeNotFound              = "NOT_FOUND"
	CodeInternal              = "INTERNAL_ERROR"
)

// AppError is an error that maps to a client-facing HTTP response.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"error"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so errors.Is(err, &AppError{Code: ...}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ==================== BOOKING ====================

func Validation(message string, details map[string]any) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

func InvalidInterval() *AppError {
	return New(CodeInvalidInterval, "End time must be after start time", http.StatusBadRequest)
}

func PastStartTime() *AppError {
	return New(CodePastStartTime, "Cannot book in the past", http.StatusBadRequest)
}

func AdvanceWindowExceeded(maxAdvanceDays int) *AppError {
	return New(CodeAdvanceWindowExceeded,
		fmt.Sprintf("Bookings can be made at most %d days in advance", maxAdvanceDays),
		http.StatusBadRequest,
	).WithDetails(map[string]any{"max_advance_days": maxAdvanceDays})
}

func ComputerNotFound() *AppError {
	return New(CodeComputerNotFound, "Computer not found", http.StatusNotFound)
}

func ComputerUnavailable(status string) *AppError {
	return New(CodeComputerUnavailable, "Computer is not available for booking", http.StatusConflict).
		WithDetails(map[string]any{"status": status})
}

// BookingConflict describes the existing booking that overlaps the request.
// An empty id means the conflict was reported by the database constraint.
func BookingConflict(id string, start, end time.Time, status string) *AppError {
	e := New(CodeBookingConflict, "Time slot conflicts with an existing booking", http.StatusConflict)
	if id == "" {
		return e
	}
	return e.WithDetails(map[string]any{
		"conflicting_booking": map[string]any{
			"id":         id,
			"start_time": start.UTC().Format(time.RFC3339),
			"end_time":   end.UTC().Format(time.RFC3339),
			"status":     status,
		},
	})
}

func QuotaExceeded(currentSlots, attemptedSlots, maxSlots int) *AppError {
	return New(CodeQuotaExceeded, "Booking quota exceeded", http.StatusForbidden).
		WithDetails(map[string]any{
			"current_slots":   currentSlots,
			"attempted_slots": attemptedSlots,
			"max_slots":       maxSlots,
		})
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusForbidden)
}

func BookingNotFound() *AppError {
	return New(CodeBookingNotFound, "Booking not found", http.StatusNotFound)
}

func InvalidUnlock() *AppError {
	return New(CodeInvalidUnlock, "Invalid unlock code or booking time", http.StatusForbidden)
}

// ==================== AUTH & GENERIC ====================

func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized)
}

func AuthRequired() *AppError {
	return New(CodeAuthRequired, "Authentication required", http.StatusUnauthorized)
}

func AccountBanned() *AppError {
	return New(CodeAccountBanned, "Account is banned", http.StatusForbidden)
}

// Forbidden rejects an operation the caller may not perform on the target,
// such as banning an administrator.
func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func AlreadyExists(resource string) *AppError {
	return New(CodeAlreadyExists, fmt.Sprintf("%s already exists", resource), http.StatusConflict)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the AppError code in err's chain, or "" for other errors.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}
