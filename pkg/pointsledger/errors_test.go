package pointsledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Behyna/gem-services/pkg/pointsledger"
	"github.com/stretchr/testify/assert"
)

func TestMapStatusToError(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		expectedError error
	}{
		{name: "NotFound", statusCode: 404, expectedError: pointsledger.ErrUserNotFound},
		{name: "Conflict", statusCode: 409, expectedError: pointsledger.ErrInsufficientPoints},
		{name: "UnprocessableEntity", statusCode: 422, expectedError: pointsledger.ErrValidationFailed},
		{name: "InternalServerError", statusCode: 500, expectedError: pointsledger.ErrServerError},
		{name: "BadGateway", statusCode: 502, expectedError: pointsledger.ErrServerError},
		{name: "BadRequest", statusCode: 400, expectedError: pointsledger.ErrServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := pointsledger.MapStatusToError(tc.statusCode)

			assert.Equal(t, tc.expectedError, err)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, pointsledger.IsRetryable(pointsledger.ErrUserNotFound))
	assert.False(t, pointsledger.IsRetryable(pointsledger.ErrInsufficientPoints))
	assert.False(t, pointsledger.IsRetryable(fmt.Errorf("wrapped: %w", pointsledger.ErrValidationFailed)))
	assert.True(t, pointsledger.IsRetryable(pointsledger.ErrTimeout))
	assert.True(t, pointsledger.IsRetryable(pointsledger.ErrServerError))
	assert.True(t, pointsledger.IsRetryable(errors.New("connection reset")))
	assert.True(t, pointsledger.IsRetryable(context.Canceled))
}
