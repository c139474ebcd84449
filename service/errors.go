package service

import (
	"errors"
	"fmt"
	"net/http"

	"saletech/constants"
)

// AppError is an error whose message is safe to show to the caller.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func BadRequest(format string, args ...any) *AppError {
	return NewAppError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

// AsAppError reports whether err carries a client-facing AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ErrAmountMismatch is returned when a confirmed gateway amount differs from
// the order total. Callers match it with errors.Is.
var ErrAmountMismatch = Conflict(constants.AMOUNT_MISMATCH)

// ErrProcessorNotRegistered means the payment method has no processor wired
// at startup. It is a deployment problem, never a client error.
var ErrProcessorNotRegistered = errors.New("payment processor not registered")
