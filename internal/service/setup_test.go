package service_test

import (
	"context"
	"testing"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/internal/testutil"
	"github.com/Behyna/gem-services/internal/tracing"
	"github.com/Behyna/gem-services/pkg/pointsledger"
	"github.com/Behyna/gem-services/pkg/proofissuer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type store struct {
	db             *gorm.DB
	cfg            *config.Config
	catalog        *catalog.Catalog
	metrics        *metrics.Metrics
	txManager      repository.TxManager
	accounts       repository.AccountRepository
	transactions   repository.TransactionRepository
	justifications repository.JustificationRepository
	selections     repository.SelectionRepository
	owned          repository.OwnedItemRepository
	ledger         service.LedgerService
}

func testConfig() *config.Config {
	return &config.Config{
		Ledger:       config.Ledger{HistoryDefaultLimit: 20, HistoryMaxLimit: 100},
		Conversion:   config.Conversion{PointsPerGem: 100, MinimumPoints: 100},
		PointsLedger: pointsledger.Config{Enable: true, MaxRetries: 3},
		ProofIssuer:  proofissuer.Config{Enable: true, MaxRetries: 2},
	}
}

func newStore(t *testing.T) *store {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	cfg := testConfig()

	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	s := &store{
		db:             db,
		cfg:            cfg,
		catalog:        cat,
		metrics:        metrics.NewMetrics(prometheus.NewRegistry()),
		txManager:      repository.NewTransactionManager(db),
		accounts:       repository.NewAccountRepository(db),
		transactions:   repository.NewTransactionRepository(db, testutil.NewSequence()),
		justifications: repository.NewJustificationRepository(db),
		selections:     repository.NewSelectionRepository(db),
		owned:          repository.NewOwnedItemRepository(db),
	}

	s.ledger = service.NewLedgerService(s.txManager, s.accounts, s.transactions, s.justifications,
		repository.NewAccountLocker(), s.metrics, tracing.NoopTracer(), cfg, zap.NewNop())

	return s
}

func (s *store) credit(t *testing.T, userID string, gems int64) {
	t.Helper()

	_, err := s.ledger.ApplyDelta(context.Background(), service.ApplyDeltaCommand{
		UserID:      userID,
		Delta:       gems,
		Type:        model.TxTypeBonus,
		Description: "test credit",
	})
	require.NoError(t, err)
}

// requireConsistent checks the account invariants and that the completed
// transactions sum to the account totals.
func (s *store) requireConsistent(t *testing.T, userID string) model.GemAccount {
	t.Helper()

	account, err := s.ledger.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, account.Consistent(), "account %+v", account)

	earned, spent, err := s.transactions.SumCompleted(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, account.TotalEarned-account.TotalSpent, earned-spent)

	return account
}
