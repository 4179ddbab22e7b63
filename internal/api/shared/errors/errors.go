package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeInvalidRequest   ErrorCode = "invalid_request"
	ErrCodeInvalidEditionID ErrorCode = "invalid_edition_id"
	ErrCodeInvalidQuery     ErrorCode = "invalid_query"
	ErrCodeInvalidBody      ErrorCode = "invalid_body"
	ErrCodePINNotFound      ErrorCode = "pin_not_found"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeRateLimited      ErrorCode = "rate_limited"

	// Server errors (5xx)
	ErrCodeClaimFailed        ErrorCode = "claim_failed"
	ErrCodeMintFailed         ErrorCode = "mint_failed"
	ErrCodeOnchainQueryFailed ErrorCode = "onchain_query_failed"
	ErrCodeSetURIFailed       ErrorCode = "set_uri_failed"
	ErrCodePinningDisabled    ErrorCode = "pinning_disabled"
	ErrCodePinFailed          ErrorCode = "pin_failed"
	ErrCodeInternalError      ErrorCode = "internal_error"
)

// APIError represents a structured API error that carries the HTTP status, error code and details.
// It is the only error body the API writes.
type APIError struct {
	Status  int         `json:"-"`
	Code    ErrorCode   `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// ValidationDetails lists validation failures per field
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// NewValidationDetails returns empty validation details
func NewValidationDetails() *ValidationDetails {
	return &ValidationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}
}

// AddField records a failure for field
func (d *ValidationDetails) AddField(field, message string) {
	d.FieldErrors[field] = append(d.FieldErrors[field], message)
}

// AddForm records a failure not tied to one field
func (d *ValidationDetails) AddForm(message string) {
	d.FormErrors = append(d.FormErrors, message)
}

// Error constructors for common error types
func NewInvalidRequestError(details *ValidationDetails) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidRequest,
		Details: details,
	}
}

func NewInvalidEditionIDError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidEditionID,
		Message: message,
	}
}

func NewInvalidQueryError(details *ValidationDetails) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidQuery,
		Details: details,
	}
}

func NewInvalidBodyError(details *ValidationDetails) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidBody,
		Details: details,
	}
}

func NewPINNotFoundError() *APIError {
	return &APIError{
		Status: http.StatusNotFound,
		Code:   ErrCodePINNotFound,
	}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

func NewUnauthorizedError() *APIError {
	return &APIError{
		Status: http.StatusUnauthorized,
		Code:   ErrCodeUnauthorized,
	}
}

func NewRateLimitedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Code:    ErrCodeRateLimited,
		Message: message,
	}
}

func NewClaimFailedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeClaimFailed,
		Message: message,
	}
}

func NewMintFailedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeMintFailed,
		Message: message,
	}
}

func NewOnchainQueryFailedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeOnchainQueryFailed,
		Message: message,
	}
}

func NewSetURIFailedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeSetURIFailed,
		Message: message,
	}
}

func NewPinningDisabledError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    ErrCodePinningDisabled,
		Message: message,
	}
}

func NewPinFailedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadGateway,
		Code:    ErrCodePinFailed,
		Message: message,
	}
}

func NewInternalError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeInternalError,
		Message: message,
	}
}
