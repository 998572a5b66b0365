package service

import (
	"errors"
	"fmt"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeValidation           = "validation_error"
	ErrCodeInvalidAmount        = "invalid_amount"
	ErrCodeInvalidCurrency      = "invalid_currency"
	ErrCodeInvalidAccountNumber = "invalid_account_number"
	ErrCodeUnauthenticated      = "unauthenticated"
	ErrCodeInvalidCredentials   = "invalid_credentials"
	ErrCodeForbidden            = "forbidden"
	ErrCodeNotOwner             = "not_owner"
	ErrCodeAccountNotFound      = "account_not_found"
	ErrCodeDestinationNotFound  = "destination_not_found"
	ErrCodeUserNotFound         = "user_not_found"
	ErrCodeDuplicateAccount     = "duplicate_account"
	ErrCodeEmailTaken           = "email_taken"
	ErrCodeInvalidState         = "invalid_state"
	ErrCodeAccountNotActive     = "account_not_active"
	ErrCodeSelfTransfer         = "self_transfer"
	ErrCodeInsufficientFunds    = "insufficient_funds"
	ErrCodeRateNotFound         = "rate_not_found"
	ErrCodeSignupCooldown       = "signup_cooldown"
	ErrCodeTransferFailed       = "transfer_failed"
	ErrCodeIdempotencyKeyReused = "idempotency_key_reused"
	ErrCodeInternalError        = "internal_error"
)

func newError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func internalError(message string, err error) *ServiceError {
	return &ServiceError{Code: ErrCodeInternalError, Message: message, Err: err}
}

// ErrorCode returns the code of the first ServiceError in err's chain, or
// ErrCodeInternalError when there is none
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrCodeInternalError
}
