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

// Error codes
const (
	ErrCodeInvalidAccountType      = "invalid_account_type"
	ErrCodeInvalidPrivilegeType    = "invalid_privilege_type"
	ErrCodeInvalidPolicyType       = "invalid_policy_type"
	ErrCodeInvalidPIN              = "invalid_pin"
	ErrCodeInvalidAmount           = "invalid_amount"
	ErrCodeInactiveAccount         = "inactive_account"
	ErrCodeInsufficientBalance     = "insufficient_balance"
	ErrCodeDailyLimitExceeded      = "daily_limit_exceeded"
	ErrCodeMinBalanceNotMaintained = "min_balance_not_maintained"
	ErrCodeAccountNotFound         = "account_not_found"
	ErrCodeUnableToOpenAccount     = "unable_to_open_account"
	ErrCodeTransactionNotFound     = "transaction_not_found"
	ErrCodeInvalidTransactionType  = "invalid_transaction_type"
	ErrCodeDatabaseOperation       = "database_operation"
	ErrCodeExternalTransferFailure = "external_transfer_failure"
	ErrCodeInternalError           = "internal_error"
)

func newError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func wrapError(code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// ErrorCode returns the code of a ServiceError anywhere in err's chain, or "" if there is none
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
