package service

import "errors"

var (
	ErrInvalidUser              = errors.New("INVALID_USER")
	ErrInvalidAmount            = errors.New("INVALID_AMOUNT")
	ErrInvalidAdjustment        = errors.New("INVALID_ADJUSTMENT_TYPE")
	ErrInsufficientBalance      = errors.New("INSUFFICIENT_BALANCE")
	ErrInsufficientPoints       = errors.New("INSUFFICIENT_POINTS")
	ErrUnknownItem              = errors.New("UNKNOWN_ITEM")
	ErrInvalidCustomValue       = errors.New("INVALID_CUSTOM_VALUE")
	ErrUnknownOffer             = errors.New("UNKNOWN_OFFER")
	ErrNotActivated             = errors.New("NOT_ACTIVATED")
	ErrJustificationUnavailable = errors.New("JUSTIFICATION_UNAVAILABLE")
	ErrJustificationNotRequired = errors.New("JUSTIFICATION_NOT_REQUIRED")
	ErrLedgerInconsistent       = errors.New("LEDGER_INCONSISTENT")
	ErrPointsDisabled           = errors.New("POINTS_LEDGER_DISABLED")
	ErrDatabase                 = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the service error in err's chain, or "".
func CodeOf(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return ""
}
