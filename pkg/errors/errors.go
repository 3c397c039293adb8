package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or an
// empty string if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given AppError code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Match session error codes
const (
	ErrCodeNoActiveSession   = "NO_ACTIVE_SESSION"
	ErrCodeAlreadyActive     = "ALREADY_ACTIVE"
	ErrCodeInvalidConfig     = "INVALID_CONFIGURATION"
	ErrCodeNotAuthorized     = "NOT_AUTHORIZED"
	ErrCodePendingAck        = "PENDING_ACKNOWLEDGEMENT"
	ErrCodeDisputeInProgress = "DISPUTE_IN_PROGRESS"
	ErrCodeThresholdNotMet   = "THRESHOLD_NOT_ELAPSED"
	ErrCodeDuplicateAck      = "DUPLICATE_ACKNOWLEDGEMENT"
	ErrCodeInsufficientGames = "INSUFFICIENT_GAMES"
	ErrCodeNoPendingResult   = "NO_PENDING_RESULT"
	ErrCodeNoDispute         = "NO_DISPUTE"
)
