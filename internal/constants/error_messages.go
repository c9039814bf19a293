package constants

import "net/http"

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed         = "VALIDATION_FAILED"
	ErrCodeUnauthenticated          = "UNAUTHENTICATED"
	ErrCodeForbidden                = "FORBIDDEN"
	ErrCodeInvalidAmount            = "INVALID_AMOUNT"
	ErrCodeInsufficientPoints       = "INSUFFICIENT_POINTS"
	ErrCodeInsufficientBalance      = "INSUFFICIENT_BALANCE"
	ErrCodeUnknownItem              = "UNKNOWN_ITEM"
	ErrCodeInvalidCustomValue       = "INVALID_CUSTOM_VALUE"
	ErrCodeUnknownOffer             = "UNKNOWN_OFFER"
	ErrCodeNotActivated             = "NOT_ACTIVATED"
	ErrCodeJustificationUnavailable = "JUSTIFICATION_UNAVAILABLE"
	ErrCodePointsServiceError       = "POINTS_SERVICE_ERROR"
	ErrCodeLedgerInconsistent       = "LEDGER_INCONSISTENT"
	ErrCodeOperationFailed          = "OPERATION_FAILED"
)

const (
	ErrMsgValidationFailed         = "request validation failed"
	ErrMsgUnauthenticated          = "authentication required"
	ErrMsgForbidden                = "not allowed"
	ErrMsgInvalidAmount            = "amount is below the minimum conversion block"
	ErrMsgInsufficientPoints       = "not enough points"
	ErrMsgInsufficientBalance      = "not enough gems"
	ErrMsgUnknownItem              = "unknown catalog item"
	ErrMsgInvalidCustomValue       = "custom value must be a hex colour"
	ErrMsgUnknownOffer             = "unknown partner offer"
	ErrMsgNotActivated             = "offer has not been activated"
	ErrMsgJustificationUnavailable = "justification is not available right now"
	ErrMsgPointsServiceError       = "points service unavailable"
	ErrMsgLedgerInconsistent       = "ledger inconsistency detected"
	ErrMsgOperationFailed          = "operation failed"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:         ErrMsgValidationFailed,
	ErrCodeUnauthenticated:          ErrMsgUnauthenticated,
	ErrCodeForbidden:                ErrMsgForbidden,
	ErrCodeInvalidAmount:            ErrMsgInvalidAmount,
	ErrCodeInsufficientPoints:       ErrMsgInsufficientPoints,
	ErrCodeInsufficientBalance:      ErrMsgInsufficientBalance,
	ErrCodeUnknownItem:              ErrMsgUnknownItem,
	ErrCodeInvalidCustomValue:       ErrMsgInvalidCustomValue,
	ErrCodeUnknownOffer:             ErrMsgUnknownOffer,
	ErrCodeNotActivated:             ErrMsgNotActivated,
	ErrCodeJustificationUnavailable: ErrMsgJustificationUnavailable,
	ErrCodePointsServiceError:       ErrMsgPointsServiceError,
	ErrCodeLedgerInconsistent:       ErrMsgLedgerInconsistent,
	ErrCodeOperationFailed:          ErrMsgOperationFailed,
}

var httpStatuses = map[string]int{
	ErrCodeValidationFailed:         http.StatusBadRequest,
	ErrCodeInvalidAmount:            http.StatusBadRequest,
	ErrCodeInvalidCustomValue:       http.StatusBadRequest,
	ErrCodeUnauthenticated:          http.StatusUnauthorized,
	ErrCodeForbidden:                http.StatusForbidden,
	ErrCodeUnknownItem:              http.StatusNotFound,
	ErrCodeUnknownOffer:             http.StatusNotFound,
	ErrCodeNotActivated:             http.StatusNotFound,
	ErrCodeInsufficientBalance:      http.StatusConflict,
	ErrCodeInsufficientPoints:       http.StatusConflict,
	ErrCodeJustificationUnavailable: http.StatusServiceUnavailable,
	ErrCodePointsServiceError:       http.StatusServiceUnavailable,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgOperationFailed
}

func GetHTTPStatus(code string) int {
	if status, exists := httpStatuses[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}
