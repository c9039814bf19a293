package mocks

import (
	"context"

	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (l *LedgerService) ApplyDelta(ctx context.Context, cmd service.ApplyDeltaCommand) (service.ApplyResult, error) {
	args := l.Called(ctx, cmd)
	return args.Get(0).(service.ApplyResult), args.Error(1)
}

func (l *LedgerService) Replay(ctx context.Context, idempotencyKey string) (model.Transaction, bool, error) {
	args := l.Called(ctx, idempotencyKey)
	return args.Get(0).(model.Transaction), args.Bool(1), args.Error(2)
}

func (l *LedgerService) GetAccount(ctx context.Context, userID string) (model.GemAccount, error) {
	args := l.Called(ctx, userID)
	return args.Get(0).(model.GemAccount), args.Error(1)
}

func (l *LedgerService) History(ctx context.Context, query service.HistoryQuery) (service.HistoryResponse, error) {
	args := l.Called(ctx, query)
	return args.Get(0).(service.HistoryResponse), args.Error(1)
}

func (l *LedgerService) Audit(ctx context.Context, userID string) (service.AuditReport, error) {
	args := l.Called(ctx, userID)
	return args.Get(0).(service.AuditReport), args.Error(1)
}
