package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrAlreadyTransitioned = errors.New("requirement already transitioned")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrSelfAssignment      = errors.New("cannot assign requirement to yourself")
	ErrPickupInPast        = errors.New("pickup schedule is in the past")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

func AlreadyTransitioned() *APIError {
	return NewAPIError("already_transitioned", "requirement was already confirmed, assigned or deleted", http.StatusConflict)
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_transition", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusBadRequest)
}

func SelfAssignment() *APIError {
	return NewAPIError("self_assignment", "you cannot assign the requirement to yourself", http.StatusBadRequest)
}

func PickupDateInPast() *APIError {
	return NewAPIError("pickup_in_past", "pickup date cannot be in the past", http.StatusBadRequest)
}

func PickupTimeInPast() *APIError {
	return NewAPIError("pickup_in_past", "pickup time must be in the future", http.StatusBadRequest)
}

func NotOwner(action string) *APIError {
	return NewAPIError("bad_request", fmt.Sprintf("you cannot %s this requirement", action), http.StatusBadRequest)
}
