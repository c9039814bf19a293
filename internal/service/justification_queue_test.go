package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/gem-services/internal/mocks"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestJustificationQueue_FindJustificationsToQueue(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns commands successfully", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		pending := []model.Justification{
			{TransactionID: 11, UserID: "user-1", PartnerID: "cinema", OfferType: "premium", Type: "qr"},
			{TransactionID: 12, UserID: "user-2", PartnerID: "gym", OfferType: "premium", Type: "image", Attempts: 2},
		}
		mockRepo.On("FindUnpublishedPending", context.Background(), 100).Return(pending, nil)

		commands, err := svc.FindJustificationsToQueue(context.Background(), 100)

		assert.NoError(t, err)
		assert.Equal(t, []service.IssueJustificationCommand{
			{TransactionID: 11, UserID: "user-1", PartnerID: "cinema", OfferType: "premium"},
			{TransactionID: 12, UserID: "user-2", PartnerID: "gym", OfferType: "premium", Attempts: 2},
		}, commands)
		mockRepo.AssertExpectations(t)
	})

	t.Run("returns nil when nothing is pending", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		mockRepo.On("FindUnpublishedPending", context.Background(), 50).Return([]model.Justification{}, nil)

		commands, err := svc.FindJustificationsToQueue(context.Background(), 50)

		assert.NoError(t, err)
		assert.Nil(t, commands)
	})

	t.Run("returns repository error", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		dbErr := errors.New("database connection failed")
		mockRepo.On("FindUnpublishedPending", context.Background(), 100).Return(nil, dbErr)

		commands, err := svc.FindJustificationsToQueue(context.Background(), 100)

		assert.Equal(t, dbErr, err)
		assert.Nil(t, commands)
	})
}

func TestJustificationQueue_MarkJustificationAsQueued(t *testing.T) {
	logger := zap.NewNop()

	t.Run("marks published", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		mockRepo.On("MarkPublished", context.Background(), int64(11), 0).Return(nil)

		assert.NoError(t, svc.MarkJustificationAsQueued(context.Background(), 11, 0))
		mockRepo.AssertExpectations(t)
	})

	t.Run("row changed since it was read", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		mockRepo.On("MarkPublished", context.Background(), int64(11), 1).Return(repository.ErrJustificationChanged)

		assert.NoError(t, svc.MarkJustificationAsQueued(context.Background(), 11, 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("returns repository error", func(t *testing.T) {
		mockRepo := &mocks.JustificationRepository{}
		svc := service.NewJustificationQueueService(mockRepo, logger)

		mockRepo.On("MarkPublished", context.Background(), int64(11), 0).Return(errors.New("lock wait timeout"))

		assert.Error(t, svc.MarkJustificationAsQueued(context.Background(), 11, 0))
	})
}
