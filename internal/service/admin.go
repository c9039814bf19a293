package service

import (
	"context"
	"fmt"

	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/model"
	"go.uber.org/zap"
)

// adjustmentSigns lists the manual adjustment types and the direction each moves the balance.
var adjustmentSigns = map[model.TxType]int64{
	model.TxTypeAdminGrant:  1,
	model.TxTypeBonus:       1,
	model.TxTypeReward:      1,
	model.TxTypeRefund:      1,
	model.TxTypeAdminDeduct: -1,
}

type AdminService interface {
	AdjustBalance(ctx context.Context, cmd AdjustBalanceCommand) (TransactionView, error)
	Audit(ctx context.Context, userID string) (AuditReport, error)
}

type admin struct {
	ledger LedgerService
	logger *zap.Logger
}

func NewAdminService(ledger LedgerService, logger *zap.Logger) AdminService {
	return &admin{ledger: ledger, logger: logger}
}

func (a *admin) AdjustBalance(ctx context.Context, cmd AdjustBalanceCommand) (TransactionView, error) {
	if cmd.UserID == "" {
		return TransactionView{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	if cmd.Amount <= 0 {
		return TransactionView{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	sign, ok := adjustmentSigns[cmd.Type]
	if !ok {
		return TransactionView{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidAdjustment)
	}

	result, err := a.ledger.ApplyDelta(ctx, ApplyDeltaCommand{
		UserID:      cmd.UserID,
		Delta:       sign * cmd.Amount,
		Type:        cmd.Type,
		Description: fmt.Sprintf("Manual %s: %s", cmd.Type, cmd.Reason),
		Metadata:    model.AdjustmentMetadata{ActorID: cmd.ActorID, Reason: cmd.Reason},
	})
	if err != nil {
		return TransactionView{}, err
	}

	a.logger.Info("Balance adjusted manually",
		zap.String("userID", cmd.UserID),
		zap.String("actorID", cmd.ActorID),
		zap.String("type", string(cmd.Type)),
		zap.Int64("gemsDelta", result.Transaction.GemsDelta))

	return newTransactionView(result.Transaction), nil
}

func (a *admin) Audit(ctx context.Context, userID string) (AuditReport, error) {
	if userID == "" {
		return AuditReport{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	return a.ledger.Audit(ctx, userID)
}
