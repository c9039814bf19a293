package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// customColorRule accepts #RGB and #RRGGBB.
const customColorRule = "required,hexcolor,len=4|len=7"

type PurchaseService interface {
	Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResponse, error)
	Selections(ctx context.Context, userID string) (map[string]SelectionView, error)
	OwnedItems(ctx context.Context, userID string) ([]OwnedItemView, error)
}

type purchase struct {
	ledger     LedgerService
	catalog    *catalog.Catalog
	selections repository.SelectionRepository
	owned      repository.OwnedItemRepository
	validate   *validator.Validate
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewPurchaseService(ledger LedgerService, catalog *catalog.Catalog, selections repository.SelectionRepository,
	owned repository.OwnedItemRepository, metrics *metrics.Metrics, logger *zap.Logger) PurchaseService {

	return &purchase{
		ledger:     ledger,
		catalog:    catalog,
		selections: selections,
		owned:      owned,
		validate:   validator.New(),
		metrics:    metrics,
		logger:     logger,
	}
}

// Purchase charges the item price and makes the item the active selection of
// its category. Every call charges, including for items already owned.
func (p *purchase) Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResponse, error) {
	if cmd.UserID == "" {
		return PurchaseResponse{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	category := catalog.Category(cmd.Category)
	item, ok := p.catalog.Item(category, cmd.ItemID)
	if !ok {
		p.metrics.RecordPurchase(cmd.Category, "unknown_item")
		return PurchaseResponse{}, NewServiceError(constants.ErrCodeUnknownItem, ErrUnknownItem)
	}

	metadata := model.PurchaseMetadata{
		Category: string(category),
		ItemID:   item.ItemID(),
		Price:    item.Price(),
	}

	switch item.(type) {
	case catalog.CustomColor:
		if err := p.validate.Var(cmd.CustomValue, customColorRule); err != nil {
			p.metrics.RecordPurchase(cmd.Category, "invalid_custom_value")
			return PurchaseResponse{}, NewServiceError(constants.ErrCodeInvalidCustomValue,
				fmt.Errorf("%w: %q", ErrInvalidCustomValue, cmd.CustomValue))
		}
		metadata.CustomValue = strings.ToLower(cmd.CustomValue)
	}

	var idempotencyKey string
	if cmd.IdempotencyKey != "" {
		idempotencyKey = fmt.Sprintf("purchase-%s-%s", cmd.UserID, cmd.IdempotencyKey)
	}

	result, err := p.ledger.ApplyDelta(ctx, ApplyDeltaCommand{
		UserID:         cmd.UserID,
		Delta:          -item.Price(),
		Type:           model.TxTypePurchase,
		Description:    fmt.Sprintf("Purchased %s %s", category, item.ItemID()),
		Metadata:       metadata,
		IdempotencyKey: idempotencyKey,
		Within: func(ctx context.Context, tx model.Transaction) error {
			if err := p.owned.Record(ctx, cmd.UserID, string(category), item.ItemID(), tx.ID); err != nil {
				return fmt.Errorf("recording ownership: %w", err)
			}

			selection := model.ActiveSelection{
				UserID:        cmd.UserID,
				Category:      string(category),
				ItemID:        item.ItemID(),
				CustomValue:   metadata.CustomValue,
				TransactionID: tx.ID,
			}
			if err := p.selections.Activate(ctx, selection); err != nil {
				return fmt.Errorf("activating selection: %w", err)
			}

			return nil
		},
	})
	if err != nil {
		p.metrics.RecordPurchase(cmd.Category, purchaseStatus(err))
		return PurchaseResponse{}, err
	}

	selections, err := p.Selections(ctx, cmd.UserID)
	if err != nil {
		return PurchaseResponse{}, err
	}

	p.metrics.RecordPurchase(cmd.Category, "completed")

	return PurchaseResponse{
		Transaction:      newTransactionView(result.Transaction),
		ActiveSelections: selections,
		Replayed:         result.Replayed,
	}, nil
}

func (p *purchase) Selections(ctx context.Context, userID string) (map[string]SelectionView, error) {
	selections, err := p.selections.ListByUser(ctx, userID)
	if err != nil {
		p.logger.Error("Failed to load active selections", zap.Error(err), zap.String("userID", userID))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return newSelectionViews(selections), nil
}

func (p *purchase) OwnedItems(ctx context.Context, userID string) ([]OwnedItemView, error) {
	owned, err := p.owned.ListByUser(ctx, userID)
	if err != nil {
		p.logger.Error("Failed to load owned items", zap.Error(err), zap.String("userID", userID))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	active, err := p.Selections(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]OwnedItemView, 0, len(owned))
	for _, item := range owned {
		views = append(views, OwnedItemView{
			Category:      item.Category,
			ItemID:        item.ItemID,
			PurchaseCount: item.PurchaseCount,
			Active:        active[item.Category].ItemID == item.ItemID,
			AcquiredAt:    item.CreatedAt,
		})
	}

	return views, nil
}

func purchaseStatus(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrLedgerInconsistent):
		return "inconsistent"
	default:
		return "failed"
	}
}
