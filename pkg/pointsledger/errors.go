package pointsledger

import (
	"context"
	"errors"
	"net"
)

const (
	StatusOK                  = 200
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeInsufficientPoint = "INSUFFICIENT_POINTS"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeServerError       = "SERVER_ERROR"
)

var (
	ErrValidationFailed   = errors.New(ErrCodeValidationFailed)
	ErrUserNotFound       = errors.New(ErrCodeUserNotFound)
	ErrInsufficientPoints = errors.New(ErrCodeInsufficientPoint)
	ErrTimeout            = errors.New(ErrCodeTimeout)
	ErrServerError        = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusNotFound:            ErrUserNotFound,
	StatusConflict:            ErrInsufficientPoints,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsRetryable reports whether a call may succeed when repeated with the same idempotency key.
func IsRetryable(err error) bool {
	return !errors.Is(err, ErrUserNotFound) &&
		!errors.Is(err, ErrInsufficientPoints) &&
		!errors.Is(err, ErrValidationFailed)
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return err
}
