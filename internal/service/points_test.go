package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/mocks"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/pkg/pointsledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestPoints_Debit(t *testing.T) {
	logger := zap.NewNop()
	cfg := &config.Config{PointsLedger: pointsledger.Config{Enable: true, MaxRetries: 3}}

	cmd := service.MovePointsCommand{
		UserID:         "user123",
		Points:         200,
		IdempotencyKey: "convert-user123-key",
		Reason:         "gem conversion",
	}

	expectedRequest := pointsledger.MovePointsRequest{
		UserID:         cmd.UserID,
		Points:         cmd.Points,
		IdempotencyKey: cmd.IdempotencyKey,
		Reason:         cmd.Reason,
	}

	t.Run("Successful debit on first attempt", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		response := pointsledger.MoveResponse{Code: "success", Result: pointsledger.MoveResult{TransactionID: 77}}
		mockClient.On("Debit", context.Background(), expectedRequest).Return(response, nil)

		txID, err := svc.Debit(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(77), txID)
		mockClient.AssertNumberOfCalls(t, "Debit", 1)
	})

	t.Run("Insufficient points no retries", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{}, pointsledger.ErrInsufficientPoints)

		_, err := svc.Debit(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientPoints, serviceErr.Code)
		assert.ErrorIs(t, err, service.ErrInsufficientPoints)
		mockClient.AssertNumberOfCalls(t, "Debit", 1)
	})

	t.Run("Unknown user is reported as insufficient points", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{}, pointsledger.ErrUserNotFound)

		_, err := svc.Debit(context.Background(), cmd)

		assert.Equal(t, constants.ErrCodeInsufficientPoints, service.CodeOf(err))
		assert.ErrorIs(t, err, pointsledger.ErrUserNotFound)
		mockClient.AssertNumberOfCalls(t, "Debit", 1)
	})

	t.Run("Timeout retries until max attempts", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{}, pointsledger.ErrTimeout)

		_, err := svc.Debit(context.Background(), cmd)

		assert.Equal(t, constants.ErrCodePointsServiceError, service.CodeOf(err))
		assert.ErrorIs(t, err, pointsledger.ErrTimeout)
		mockClient.AssertNumberOfCalls(t, "Debit", 3)
	})

	t.Run("Succeeds after a server error", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{}, pointsledger.ErrServerError).Once()
		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{Result: pointsledger.MoveResult{TransactionID: 9}}, nil).Once()

		txID, err := svc.Debit(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), txID)
		mockClient.AssertNumberOfCalls(t, "Debit", 2)
	})

	t.Run("Validation failure is not retried", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		mockClient.On("Debit", context.Background(), expectedRequest).
			Return(pointsledger.MoveResponse{}, pointsledger.ErrValidationFailed)

		_, err := svc.Debit(context.Background(), cmd)

		assert.Equal(t, constants.ErrCodePointsServiceError, service.CodeOf(err))
		mockClient.AssertNumberOfCalls(t, "Debit", 1)
	})

	t.Run("Disabled ledger", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		disabled := &config.Config{PointsLedger: pointsledger.Config{Enable: false}}
		svc := service.NewPointsService(mockClient, disabled, metrics.NewMetrics(prometheus.NewRegistry()), logger)

		_, err := svc.Debit(context.Background(), cmd)

		assert.ErrorIs(t, err, service.ErrPointsDisabled)
		mockClient.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything)
	})
}

func TestPoints_Credit(t *testing.T) {
	cfg := &config.Config{PointsLedger: pointsledger.Config{Enable: true, MaxRetries: 2}}
	mockClient := &mocks.PointsClient{}
	svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

	mockClient.On("Credit", context.Background(), mock.MatchedBy(func(req pointsledger.MovePointsRequest) bool {
		return req.IdempotencyKey == "refund-convert-user123-key" && req.Points == 200
	})).Return(pointsledger.MoveResponse{}, errors.New("connection reset"))

	_, err := svc.Credit(context.Background(), service.MovePointsCommand{
		UserID: "user123", Points: 200, IdempotencyKey: "refund-convert-user123-key",
	})

	assert.Equal(t, constants.ErrCodePointsServiceError, service.CodeOf(err))
	mockClient.AssertNumberOfCalls(t, "Credit", 2)
}

func TestPoints_Balance(t *testing.T) {
	cfg := &config.Config{PointsLedger: pointsledger.Config{Enable: true, MaxRetries: 2}}

	t.Run("returns points", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

		mockClient.On("Balance", context.Background(), "user123").
			Return(pointsledger.BalanceResponse{Result: pointsledger.BalanceResult{UserID: "user123", Points: 450}}, nil)

		points, err := svc.Balance(context.Background(), "user123")

		assert.NoError(t, err)
		assert.Equal(t, int64(450), points)
	})

	t.Run("unknown user has no points", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

		mockClient.On("Balance", context.Background(), "ghost").
			Return(pointsledger.BalanceResponse{}, pointsledger.ErrUserNotFound)

		points, err := svc.Balance(context.Background(), "ghost")

		assert.NoError(t, err)
		assert.Zero(t, points)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		mockClient := &mocks.PointsClient{}
		svc := service.NewPointsService(mockClient, cfg, metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

		mockClient.On("Balance", context.Background(), "user123").
			Return(pointsledger.BalanceResponse{}, pointsledger.ErrServerError)

		_, err := svc.Balance(context.Background(), "user123")

		assert.Equal(t, constants.ErrCodePointsServiceError, service.CodeOf(err))
		mockClient.AssertNumberOfCalls(t, "Balance", 2)
	})
}
