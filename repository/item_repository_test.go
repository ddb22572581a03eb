package repository

import (
	"context"
	"testing"

	"smokeybot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_Catalog(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewItemRepository(testDB.DB)
	ctx := context.Background()

	item, err := repo.GetByName(ctx, "thunder-stone")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(250), item.Cost)

	missing, err := repo.GetByName(ctx, "master-ball")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItemRepository_Quantities(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewItemRepository(testDB.DB)
	ctx := context.Background()

	item, err := repo.GetByName(ctx, "fire-stone")
	require.NoError(t, err)
	require.NotNil(t, item)

	qty, err := repo.GetQuantity(ctx, 1, 2, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	require.NoError(t, repo.AdjustQuantity(ctx, 1, 2, item.ID, 2))
	require.NoError(t, repo.AdjustQuantity(ctx, 1, 2, item.ID, 1))

	qty, err = repo.GetQuantity(ctx, 1, 2, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	// Consuming down to zero removes the row
	require.NoError(t, repo.AdjustQuantity(ctx, 1, 2, item.ID, -3))
	qty, err = repo.GetQuantity(ctx, 1, 2, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}
