package mocks

import (
	"context"

	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type RedemptionService struct {
	mock.Mock
}

func (r *RedemptionService) ActivateOffer(ctx context.Context, cmd service.ActivateOfferCommand) (
	service.ActivateOfferResponse, error) {

	args := r.Called(ctx, cmd)
	return args.Get(0).(service.ActivateOfferResponse), args.Error(1)
}

func (r *RedemptionService) RegenerateJustification(ctx context.Context, cmd service.RegenerateJustificationCommand) (
	service.JustificationView, error) {

	args := r.Called(ctx, cmd)
	return args.Get(0).(service.JustificationView), args.Error(1)
}

func (r *RedemptionService) IssuePendingJustification(ctx context.Context, cmd service.IssueJustificationCommand) error {
	args := r.Called(ctx, cmd)
	return args.Error(0)
}

func (r *RedemptionService) ActivatedOffers(ctx context.Context, userID string) ([]service.OfferKey, error) {
	args := r.Called(ctx, userID)
	keys, _ := args.Get(0).([]service.OfferKey)
	return keys, args.Error(1)
}

type JustificationQueueService struct {
	mock.Mock
}

func (j *JustificationQueueService) FindJustificationsToQueue(ctx context.Context, limit int) (
	[]service.IssueJustificationCommand, error) {

	args := j.Called(ctx, limit)
	commands, _ := args.Get(0).([]service.IssueJustificationCommand)
	return commands, args.Error(1)
}

func (j *JustificationQueueService) MarkJustificationAsQueued(ctx context.Context, transactionID int64,
	attempts int) error {

	args := j.Called(ctx, transactionID, attempts)
	return args.Error(0)
}
