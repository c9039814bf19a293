package proofissuer

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var (
	ErrRejected    = errors.New("ISSUE_REJECTED")
	ErrUnsupported = errors.New("JUSTIFICATION_TYPE_UNSUPPORTED")
	ErrTimeout     = errors.New("TIMEOUT")
	ErrUnavailable = errors.New("ISSUER_UNAVAILABLE")
	ErrDisabled    = errors.New("ISSUER_DISABLED")
)

var statusErrorMap = map[int]error{
	http.StatusBadRequest:          ErrRejected,
	http.StatusUnprocessableEntity: ErrRejected,
	http.StatusNotImplemented:      ErrUnsupported,
	http.StatusGatewayTimeout:      ErrTimeout,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrUnavailable
}

func IsRetryable(err error) bool {
	return !errors.Is(err, ErrRejected) &&
		!errors.Is(err, ErrUnsupported) &&
		!errors.Is(err, ErrDisabled) &&
		!errors.Is(err, context.Canceled)
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
