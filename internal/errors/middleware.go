package errors

import (
	"errors"

	"github.com/Behyna/gem-services/internal/api/contract"
	"github.com/Behyna/gem-services/internal/api/middleware"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr, logger)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(contract.ResponseError{
				Code:    fiberErr.Code,
				Message: fiberErr.Message,
				TrackID: middleware.TrackID(c),
			})
		}

		logger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(contract.ResponseError{
			Code:    constants.ErrCodeOperationFailed,
			Message: constants.ErrMsgOperationFailed,
			TrackID: middleware.TrackID(c),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error, logger *zap.Logger) error {
	status := constants.GetHTTPStatus(err.Code)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("code", err.Code),
			zap.Error(err),
			zap.String("path", c.Path()))
	}

	return c.Status(status).JSON(contract.ResponseError{
		Code:    err.Code,
		Message: constants.GetErrorMessage(err.Code),
		TrackID: middleware.TrackID(c),
	})
}
