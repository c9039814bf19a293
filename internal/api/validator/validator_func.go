package validator

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	maxUserIDLength         = 64
	maxIdempotencyKeyLength = 128
)

const (
	UserIDTag         = "userid"
	IdempotencyKeyTag = "idempotencykey"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	UserIDTag:         ValidateUserID,
	IdempotencyKeyTag: ValidateIdempotencyKey,
}

func ValidateUserID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && len(id) <= maxUserIDLength && !strings.ContainsFunc(id, unicode.IsSpace)
}

// ValidateIdempotencyKey accepts an empty key; callers that need one add required.
func ValidateIdempotencyKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	return len(key) <= maxIdempotencyKeyLength && !strings.ContainsFunc(key, unicode.IsControl)
}
