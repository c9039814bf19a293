package validator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Behyna/gem-services/internal/api/contract"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep        = " and "
	codeFailed = "1"
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validator *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		_ = validator.RegisterValidation(key, function)
	}

	return &XValidator{
		validator: validator,
		metrics:   metrics,
	}
}

// Validator binds the query string for GET requests and the JSON body
// otherwise, then validates data. A non-empty Code on the result means the
// request was rejected and the status has already been set.
func (x XValidator) Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response) {
	start := time.Now()

	var bindErr error
	if c.Method() == fiber.MethodGet {
		bindErr = c.QueryParser(data)
	} else if len(c.Body()) > 0 {
		bindErr = c.BodyParser(data)
	}

	if bindErr != nil {
		if x.metrics != nil {
			x.metrics.RecordValidationError("body", "parse")
		}
		c.Status(http.StatusBadRequest)
		return contract.Response{Code: codeFailed, Message: "malformed request"}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		for _, err := range errs {
			errMsgs = append(errMsgs, fmt.Sprintf(message, err.FailedField))

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		c.Status(http.StatusBadRequest)

		if x.metrics != nil {
			x.metrics.RecordValidationDuration("validation_error", time.Since(start))
		}

		return contract.Response{
			Code:    codeFailed,
			Message: strings.Join(errMsgs, sep),
		}
	}

	if x.metrics != nil {
		x.metrics.RecordValidationDuration("validation_success", time.Since(start))
	}

	return responseErr
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	err := x.validator.Struct(data)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	for _, err := range errs {
		validationErrors = append(validationErrors, Error{
			Error:       true,
			FailedField: err.Field(),
			Tag:         err.Tag(),
			Value:       err.Value(),
		})
	}
	return validationErrors
}
