package repository_test

import (
	"context"
	"testing"

	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionRepository_Activate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSelectionRepository(testutil.NewSQLiteDB(t))

	require.NoError(t, repo.Activate(ctx, model.ActiveSelection{
		UserID: "user-1", Category: "usernameColor", ItemID: "rainbow", TransactionID: 1}))
	require.NoError(t, repo.Activate(ctx, model.ActiveSelection{
		UserID: "user-1", Category: "profileImage", ItemID: "robot", TransactionID: 2}))
	require.NoError(t, repo.Activate(ctx, model.ActiveSelection{
		UserID: "user-1", Category: "usernameColor", ItemID: "custom", CustomValue: "#00ff00", TransactionID: 3}))

	selections, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, selections, 2)

	assert.Equal(t, "profileImage", selections[0].Category)
	assert.Equal(t, "robot", selections[0].ItemID)
	assert.Equal(t, "usernameColor", selections[1].Category)
	assert.Equal(t, "custom", selections[1].ItemID)
	assert.Equal(t, "#00ff00", selections[1].CustomValue)
	assert.Equal(t, int64(3), selections[1].TransactionID)
}

func TestOwnedItemRepository_Record(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOwnedItemRepository(testutil.NewSQLiteDB(t))

	require.NoError(t, repo.Record(ctx, "user-1", "usernameColor", "neon", 1))
	require.NoError(t, repo.Record(ctx, "user-1", "usernameColor", "rainbow", 2))
	require.NoError(t, repo.Record(ctx, "user-1", "usernameColor", "neon", 3))

	items, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[string]model.OwnedItem{}
	for _, item := range items {
		byID[item.ItemID] = item
	}

	assert.Equal(t, 2, byID["neon"].PurchaseCount)
	assert.Equal(t, int64(1), byID["neon"].FirstTransactionID)
	assert.Equal(t, int64(3), byID["neon"].LastTransactionID)
	assert.Equal(t, 1, byID["rainbow"].PurchaseCount)
}
