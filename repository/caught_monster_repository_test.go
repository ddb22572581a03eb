package repository

import (
	"context"
	"testing"
	"time"

	"smokeybot/domain/entities"
	"smokeybot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatch(guildID, userID, monsterID int64, caughtAt time.Time) *entities.CaughtMonster {
	return &entities.CaughtMonster{
		GuildID:   guildID,
		UserID:    userID,
		MonsterID: monsterID,
		Level:     12,
		CaughtAt:  caughtAt,
	}
}

func TestCaughtMonsterRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCaughtMonsterRepository(testDB.DB)
	ctx := context.Background()

	cm := newTestCatch(1, 2, 3, time.Now().UTC())
	cm.Shiny = true
	require.NoError(t, repo.Create(ctx, cm))
	assert.NotZero(t, cm.ID)

	got, err := repo.GetByID(ctx, cm.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cm.MonsterID, got.MonsterID)
	assert.Equal(t, cm.Level, got.Level)
	assert.True(t, got.Shiny)

	missing, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCaughtMonsterRepository_GetLatest(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCaughtMonsterRepository(testDB.DB)
	ctx := context.Background()

	none, err := repo.GetLatest(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, none)

	base := time.Now().UTC().Add(-time.Hour)
	older := newTestCatch(1, 2, 1, base)
	newer := newTestCatch(1, 2, 3, base.Add(30*time.Minute))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	latest, err := repo.GetLatest(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestCaughtMonsterRepository_ListAndCount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCaughtMonsterRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTestCatch(5, 6, 1, now.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, newTestCatch(5, 6, 2, now)))
	// Another user's catch must not count
	require.NoError(t, repo.Create(ctx, newTestCatch(5, 7, 1, now)))

	list, err := repo.ListByOwner(ctx, 5, 6, 10)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	limited, err := repo.ListByOwner(ctx, 5, 6, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	count, err := repo.CountSpecies(ctx, 5, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCaughtMonsterRepository_Updates(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCaughtMonsterRepository(testDB.DB)
	ctx := context.Background()

	cm := newTestCatch(1, 2, 3, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, cm))

	require.NoError(t, repo.UpdateOwner(ctx, cm.ID, 42))
	require.NoError(t, repo.UpdateSpecies(ctx, cm.ID, 11))

	got, err := repo.GetByID(ctx, cm.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(11), got.MonsterID)

	assert.Error(t, repo.UpdateOwner(ctx, 999999, 42))
	assert.Error(t, repo.UpdateSpecies(ctx, 999999, 11))
}
