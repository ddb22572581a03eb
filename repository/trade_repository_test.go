package repository

import (
	"context"
	"testing"
	"time"

	"smokeybot/domain/entities"
	"smokeybot/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTradeFixture(t *testing.T, testDB *testutil.TestDatabase, guildID int64) *entities.Trade {
	t.Helper()
	ctx := context.Background()

	cm := newTestCatch(guildID, 10, 1, time.Now().UTC())
	require.NoError(t, NewCaughtMonsterRepository(testDB.DB).Create(ctx, cm))

	trade := &entities.Trade{
		ID:              uuid.New(),
		GuildID:         guildID,
		OffererID:       10,
		RecipientID:     20,
		CaughtMonsterID: cm.ID,
		Status:          entities.TradeStatusOpen,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, NewTradeRepository(testDB.DB).Create(ctx, trade))
	return trade
}

func TestTradeRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTradeRepository(testDB.DB)
	ctx := context.Background()

	trade := createTradeFixture(t, testDB, 1)

	got, err := repo.GetByID(ctx, trade.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, trade.OffererID, got.OffererID)
	assert.Equal(t, trade.RecipientID, got.RecipientID)
	assert.Equal(t, entities.TradeStatusOpen, got.Status)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTradeRepository_UpdateStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTradeRepository(testDB.DB)
	ctx := context.Background()

	trade := createTradeFixture(t, testDB, 2)

	require.NoError(t, repo.UpdateStatus(ctx, trade.ID, entities.TradeStatusAccepted))

	got, err := repo.GetByID(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStatusAccepted, got.Status)

	// Closed trades must not transition again
	err = repo.UpdateStatus(ctx, trade.ID, entities.TradeStatusCancelled)
	assert.Error(t, err)
}

func TestTradeRepository_ListOpenByGuild(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTradeRepository(testDB.DB)
	ctx := context.Background()

	open := createTradeFixture(t, testDB, 3)
	closed := createTradeFixture(t, testDB, 3)
	require.NoError(t, repo.UpdateStatus(ctx, closed.ID, entities.TradeStatusCancelled))
	createTradeFixture(t, testDB, 4)

	trades, err := repo.ListOpenByGuild(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, open.ID, trades[0].ID)
}
