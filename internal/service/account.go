package service

import (
	"context"

	"github.com/Behyna/gem-services/internal/constants"
)

type AccountService interface {
	Balance(ctx context.Context, userID string) (AccountResponse, error)
}

type account struct {
	ledger   LedgerService
	purchase PurchaseService
}

func NewAccountService(ledger LedgerService, purchase PurchaseService) AccountService {
	return &account{ledger: ledger, purchase: purchase}
}

func (a *account) Balance(ctx context.Context, userID string) (AccountResponse, error) {
	if userID == "" {
		return AccountResponse{}, NewServiceError(constants.ErrCodeUnauthenticated, ErrInvalidUser)
	}

	acc, err := a.ledger.GetAccount(ctx, userID)
	if err != nil {
		return AccountResponse{}, err
	}

	selections, err := a.purchase.Selections(ctx, userID)
	if err != nil {
		return AccountResponse{}, err
	}

	return AccountResponse{
		UserID:           acc.UserID,
		Balance:          acc.Balance,
		TotalEarned:      acc.TotalEarned,
		TotalSpent:       acc.TotalSpent,
		ActiveSelections: selections,
	}, nil
}
