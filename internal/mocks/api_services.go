package mocks

import (
	"context"

	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type AccountService struct {
	mock.Mock
}

func (a *AccountService) Balance(ctx context.Context, userID string) (service.AccountResponse, error) {
	args := a.Called(ctx, userID)
	return args.Get(0).(service.AccountResponse), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (c *CatalogService) Catalog() service.CatalogResponse {
	args := c.Called()
	return args.Get(0).(service.CatalogResponse)
}

type ConversionService struct {
	mock.Mock
}

func (c *ConversionService) Convert(ctx context.Context, cmd service.ConvertCommand) (service.ConvertResponse, error) {
	args := c.Called(ctx, cmd)
	return args.Get(0).(service.ConvertResponse), args.Error(1)
}

type PurchaseService struct {
	mock.Mock
}

func (p *PurchaseService) Purchase(ctx context.Context, cmd service.PurchaseCommand) (service.PurchaseResponse, error) {
	args := p.Called(ctx, cmd)
	return args.Get(0).(service.PurchaseResponse), args.Error(1)
}

func (p *PurchaseService) Selections(ctx context.Context, userID string) (map[string]service.SelectionView, error) {
	args := p.Called(ctx, userID)
	selections, _ := args.Get(0).(map[string]service.SelectionView)
	return selections, args.Error(1)
}

func (p *PurchaseService) OwnedItems(ctx context.Context, userID string) ([]service.OwnedItemView, error) {
	args := p.Called(ctx, userID)
	items, _ := args.Get(0).([]service.OwnedItemView)
	return items, args.Error(1)
}

type ReconciliationService struct {
	mock.Mock
}

func (r *ReconciliationService) ReconcileForUser(ctx context.Context, userID string, local []service.OfferKey) (
	service.ReconcileResponse, error) {

	args := r.Called(ctx, userID, local)
	return args.Get(0).(service.ReconcileResponse), args.Error(1)
}

type AdminService struct {
	mock.Mock
}

func (a *AdminService) AdjustBalance(ctx context.Context, cmd service.AdjustBalanceCommand) (
	service.TransactionView, error) {

	args := a.Called(ctx, cmd)
	return args.Get(0).(service.TransactionView), args.Error(1)
}

func (a *AdminService) Audit(ctx context.Context, userID string) (service.AuditReport, error) {
	args := a.Called(ctx, userID)
	return args.Get(0).(service.AuditReport), args.Error(1)
}
