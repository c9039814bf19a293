package mocks

import (
	"context"

	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/pkg/pointsledger"
	"github.com/stretchr/testify/mock"
)

type PointsClient struct {
	mock.Mock
}

func (p *PointsClient) Balance(ctx context.Context, userID string) (pointsledger.BalanceResponse, error) {
	args := p.Called(ctx, userID)
	return args.Get(0).(pointsledger.BalanceResponse), args.Error(1)
}

func (p *PointsClient) Debit(ctx context.Context, request pointsledger.MovePointsRequest) (pointsledger.MoveResponse, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(pointsledger.MoveResponse), args.Error(1)
}

func (p *PointsClient) Credit(ctx context.Context, request pointsledger.MovePointsRequest) (pointsledger.MoveResponse, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(pointsledger.MoveResponse), args.Error(1)
}

type PointsService struct {
	mock.Mock
}

func (p *PointsService) Balance(ctx context.Context, userID string) (int64, error) {
	args := p.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (p *PointsService) Debit(ctx context.Context, cmd service.MovePointsCommand) (int64, error) {
	args := p.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

func (p *PointsService) Credit(ctx context.Context, cmd service.MovePointsCommand) (int64, error) {
	args := p.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}
