package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LedgerService is the only writer of gem balances.
type LedgerService interface {
	ApplyDelta(ctx context.Context, cmd ApplyDeltaCommand) (ApplyResult, error)
	Replay(ctx context.Context, idempotencyKey string) (model.Transaction, bool, error)
	GetAccount(ctx context.Context, userID string) (model.GemAccount, error)
	History(ctx context.Context, query HistoryQuery) (HistoryResponse, error)
	Audit(ctx context.Context, userID string) (AuditReport, error)
}

type Ledger struct {
	txManager      repository.TxManager
	accounts       repository.AccountRepository
	transactions   repository.TransactionRepository
	justifications repository.JustificationRepository
	locker         repository.AccountLocker
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	cfg            config.Ledger
	logger         *zap.Logger
}

func NewLedgerService(txManager repository.TxManager, accounts repository.AccountRepository,
	transactions repository.TransactionRepository, justifications repository.JustificationRepository,
	locker repository.AccountLocker, metrics *metrics.Metrics, tracer trace.Tracer, cfg *config.Config,
	logger *zap.Logger) LedgerService {

	return &Ledger{
		txManager:      txManager,
		accounts:       accounts,
		transactions:   transactions,
		justifications: justifications,
		locker:         locker,
		metrics:        metrics,
		tracer:         tracer,
		cfg:            cfg.Ledger,
		logger:         logger,
	}
}

func (l *Ledger) ApplyDelta(ctx context.Context, cmd ApplyDeltaCommand) (ApplyResult, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ApplyDelta", trace.WithAttributes(
		attribute.String("gems.user_id", cmd.UserID),
		attribute.String("gems.tx_type", string(cmd.Type)),
		attribute.Int64("gems.delta", cmd.Delta),
	))
	defer span.End()

	if cmd.UserID == "" {
		return ApplyResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	if cmd.IdempotencyKey != "" {
		if tx, found, err := l.Replay(ctx, cmd.IdempotencyKey); err != nil {
			return ApplyResult{}, err
		} else if found {
			span.SetAttributes(attribute.Bool("gems.replayed", true))
			return ApplyResult{Transaction: tx, Replayed: true}, nil
		}
	}

	start := time.Now()
	unlock := l.locker.Lock(cmd.UserID)
	defer unlock()

	var committed model.Transaction
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		tx, err := l.apply(ctx, cmd)
		committed = tx
		return err
	})
	l.metrics.RecordLedgerApply(string(cmd.Type), time.Since(start))

	if err == nil {
		l.metrics.RecordLedgerTransaction(string(cmd.Type), string(model.TxStatusCompleted), cmd.Delta)
		l.logger.Info("Ledger transaction completed",
			zap.String("userID", cmd.UserID),
			zap.Int64("transactionID", committed.ID),
			zap.String("type", string(cmd.Type)),
			zap.Int64("gemsDelta", cmd.Delta))

		return ApplyResult{Transaction: committed}, nil
	}

	span.RecordError(err)

	if errors.Is(err, ErrInsufficientBalance) {
		l.metrics.RecordInsufficientBalance(string(cmd.Type))
		l.logger.Warn("Debit rejected for insufficient balance",
			zap.String("userID", cmd.UserID),
			zap.String("type", string(cmd.Type)),
			zap.Int64("gemsDelta", cmd.Delta))

		return ApplyResult{}, NewServiceError(constants.ErrCodeInsufficientBalance, err)
	}

	if errors.Is(err, repository.ErrTransactionExisted) && cmd.IdempotencyKey != "" {
		tx, found, lookupErr := l.Replay(ctx, cmd.IdempotencyKey)
		if lookupErr == nil && found {
			l.logger.Debug("Concurrent request already applied this change",
				zap.String("userID", cmd.UserID),
				zap.String("idempotencyKey", cmd.IdempotencyKey))

			return ApplyResult{Transaction: tx, Replayed: true}, nil
		}
	}

	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return ApplyResult{}, err
	}

	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, ErrLedgerInconsistent) {
		l.metrics.RecordConsistencyViolation()
		l.logger.Error("CRITICAL: ledger invariant violated, change rolled back",
			zap.String("userID", cmd.UserID),
			zap.String("type", string(cmd.Type)),
			zap.Int64("gemsDelta", cmd.Delta))

		l.recordFailure(ctx, cmd, err)
		return ApplyResult{}, NewServiceError(constants.ErrCodeLedgerInconsistent, err)
	}

	l.logger.Error("Ledger transaction failed",
		zap.Error(err),
		zap.String("userID", cmd.UserID),
		zap.String("type", string(cmd.Type)))

	l.recordFailure(ctx, cmd, err)
	return ApplyResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
}

func (l *Ledger) apply(ctx context.Context, cmd ApplyDeltaCommand) (model.Transaction, error) {
	if err := l.accounts.EnsureExists(ctx, cmd.UserID); err != nil {
		return model.Transaction{}, err
	}

	account, err := l.accounts.GetForUpdate(ctx, cmd.UserID)
	if err != nil {
		return model.Transaction{}, err
	}

	if account.Balance+cmd.Delta < 0 {
		return model.Transaction{}, ErrInsufficientBalance
	}

	tx := model.Transaction{
		UserID:      cmd.UserID,
		Type:        cmd.Type,
		GemsDelta:   cmd.Delta,
		Status:      model.TxStatusPending,
		Description: cmd.Description,
		PartnerID:   cmd.PartnerID,
		OfferType:   cmd.OfferType,
	}
	if cmd.IdempotencyKey != "" {
		key := cmd.IdempotencyKey
		tx.IdempotencyKey = &key
	}

	if err := tx.SetMetadata(cmd.Metadata); err != nil {
		return model.Transaction{}, fmt.Errorf("encoding metadata: %w", err)
	}

	if err := l.transactions.Create(ctx, &tx); err != nil {
		return model.Transaction{}, err
	}

	account.Apply(cmd.Delta)
	if !account.Consistent() {
		return model.Transaction{}, ErrLedgerInconsistent
	}

	if err := l.accounts.UpdateTotals(ctx, account); err != nil {
		return model.Transaction{}, err
	}

	if cmd.Within != nil {
		if err := cmd.Within(ctx, tx); err != nil {
			return model.Transaction{}, err
		}
	}

	if err := l.transactions.UpdateStatus(ctx, tx.ID, model.TxStatusCompleted); err != nil {
		return model.Transaction{}, err
	}
	tx.Status = model.TxStatusCompleted

	return tx, nil
}

// recordFailure appends a terminal audit record with no balance effect. It
// is best effort: the caller already has the error to report.
func (l *Ledger) recordFailure(ctx context.Context, cmd ApplyDeltaCommand, cause error) {
	status := model.TxStatusFailed
	if ctx.Err() != nil {
		status = model.TxStatusCancelled
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	tx := model.Transaction{
		UserID:      cmd.UserID,
		Type:        cmd.Type,
		GemsDelta:   cmd.Delta,
		Status:      model.TxStatusPending,
		Description: cmd.Description,
		PartnerID:   cmd.PartnerID,
		OfferType:   cmd.OfferType,
	}
	_ = tx.SetMetadata(map[string]any{"error": cause.Error(), "idempotencyKey": cmd.IdempotencyKey})

	err := l.txManager.WithTx(auditCtx, func(ctx context.Context) error {
		if err := l.transactions.Create(ctx, &tx); err != nil {
			return err
		}
		return l.transactions.UpdateStatus(ctx, tx.ID, status)
	})
	if err != nil {
		l.logger.Error("Failed to record failed transaction",
			zap.Error(err),
			zap.String("userID", cmd.UserID),
			zap.String("type", string(cmd.Type)))
		return
	}

	l.metrics.RecordLedgerTransaction(string(cmd.Type), string(status), cmd.Delta)
}

// Replay returns the completed transaction stored under idempotencyKey.
func (l *Ledger) Replay(ctx context.Context, idempotencyKey string) (model.Transaction, bool, error) {
	tx, err := l.transactions.GetByIdempotencyKey(ctx, idempotencyKey)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return model.Transaction{}, false, nil
	}

	if err != nil {
		l.logger.Error("Failed to look up idempotency key", zap.Error(err), zap.String("idempotencyKey", idempotencyKey))
		return model.Transaction{}, false, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if tx.Status != model.TxStatusCompleted {
		return model.Transaction{}, false, nil
	}

	return *tx, true, nil
}

// GetAccount returns a zeroed account for users that never transacted.
func (l *Ledger) GetAccount(ctx context.Context, userID string) (model.GemAccount, error) {
	account, err := l.accounts.Get(ctx, userID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return model.GemAccount{UserID: userID}, nil
	}

	if err != nil {
		l.logger.Error("Failed to load account", zap.Error(err), zap.String("userID", userID))
		return model.GemAccount{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return account, nil
}

func (l *Ledger) History(ctx context.Context, query HistoryQuery) (HistoryResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = l.cfg.HistoryDefaultLimit
	}
	if l.cfg.HistoryMaxLimit > 0 && limit > l.cfg.HistoryMaxLimit {
		limit = l.cfg.HistoryMaxLimit
	}

	txs, err := l.transactions.ListByUser(ctx, query.UserID, query.Cursor, limit+1)
	if err != nil {
		l.logger.Error("Failed to list transactions", zap.Error(err), zap.String("userID", query.UserID))
		return HistoryResponse{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	var nextCursor int64
	if len(txs) > limit {
		txs = txs[:limit]
		nextCursor = txs[len(txs)-1].ID
	}

	offerTxIDs := make([]int64, 0)
	for _, tx := range txs {
		if tx.Type == model.TxTypePartnerOffer && tx.Status == model.TxStatusCompleted {
			offerTxIDs = append(offerTxIDs, tx.ID)
		}
	}

	justifications, err := l.justifications.ListByTransactionIDs(ctx, offerTxIDs)
	if err != nil {
		l.logger.Warn("Failed to load justifications for history", zap.Error(err), zap.String("userID", query.UserID))
	}

	byTx := make(map[int64]model.Justification, len(justifications))
	for _, j := range justifications {
		byTx[j.TransactionID] = j
	}

	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		view := newTransactionView(tx)
		if j, ok := byTx[tx.ID]; ok {
			view.Justification = newJustificationView(j)
		}
		views = append(views, view)
	}

	return HistoryResponse{Transactions: views, NextCursor: nextCursor}, nil
}

// Audit recomputes the account totals from completed transactions.
func (l *Ledger) Audit(ctx context.Context, userID string) (AuditReport, error) {
	account, err := l.GetAccount(ctx, userID)
	if err != nil {
		return AuditReport{}, err
	}

	earned, spent, err := l.transactions.SumCompleted(ctx, userID)
	if err != nil {
		l.logger.Error("Failed to sum transactions", zap.Error(err), zap.String("userID", userID))
		return AuditReport{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	counts, err := l.transactions.CountByStatus(ctx, userID)
	if err != nil {
		l.logger.Error("Failed to count transactions", zap.Error(err), zap.String("userID", userID))
		return AuditReport{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	statusCounts := make(map[string]int64, len(counts))
	for status, count := range counts {
		statusCounts[string(status)] = count
	}

	report := AuditReport{
		UserID:          userID,
		Balance:         account.Balance,
		TotalEarned:     account.TotalEarned,
		TotalSpent:      account.TotalSpent,
		CompletedEarned: earned,
		CompletedSpent:  spent,
		StatusCounts:    statusCounts,
	}
	report.Consistent = account.Consistent() &&
		earned-spent == account.TotalEarned-account.TotalSpent

	if !report.Consistent {
		l.metrics.RecordConsistencyViolation()
		l.logger.Error("CRITICAL: ledger audit found an inconsistent account",
			zap.String("userID", userID),
			zap.Int64("balance", account.Balance),
			zap.Int64("completedNet", earned-spent))
	}

	return report, nil
}
