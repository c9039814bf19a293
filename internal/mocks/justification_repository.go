package mocks

import (
	"context"

	"github.com/Behyna/gem-services/internal/model"
	"github.com/stretchr/testify/mock"
)

type JustificationRepository struct {
	mock.Mock
}

func (j *JustificationRepository) CreateIfMissing(ctx context.Context, justification *model.Justification) error {
	args := j.Called(ctx, justification)
	return args.Error(0)
}

func (j *JustificationRepository) GetByTransactionID(ctx context.Context, transactionID int64) (*model.Justification, error) {
	args := j.Called(ctx, transactionID)
	justification, _ := args.Get(0).(*model.Justification)
	return justification, args.Error(1)
}

func (j *JustificationRepository) ListByTransactionIDs(ctx context.Context, transactionIDs []int64) ([]model.Justification, error) {
	args := j.Called(ctx, transactionIDs)
	justifications, _ := args.Get(0).([]model.Justification)
	return justifications, args.Error(1)
}

func (j *JustificationRepository) MarkIssued(ctx context.Context, transactionID int64, reference, url string) error {
	args := j.Called(ctx, transactionID, reference, url)
	return args.Error(0)
}

func (j *JustificationRepository) RecordFailure(ctx context.Context, transactionID int64, lastError string, republish bool) error {
	args := j.Called(ctx, transactionID, lastError, republish)
	return args.Error(0)
}

func (j *JustificationRepository) FindUnpublishedPending(ctx context.Context, limit int) ([]model.Justification, error) {
	args := j.Called(ctx, limit)
	justifications, _ := args.Get(0).([]model.Justification)
	return justifications, args.Error(1)
}

func (j *JustificationRepository) MarkPublished(ctx context.Context, transactionID int64, attempts int) error {
	args := j.Called(ctx, transactionID, attempts)
	return args.Error(0)
}

func (j *JustificationRepository) CountPending(ctx context.Context) (int64, error) {
	args := j.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
