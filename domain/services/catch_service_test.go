package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"smokeybot/domain/entities"
	"smokeybot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatchFixture(t *testing.T) (*SpawnRegistry, *testhelpers.MockCaughtMonsterRepository, *testhelpers.MockPlayerRepository, *catchService) {
	t.Helper()
	registry := NewSpawnRegistry()
	caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
	playerRepo := new(testhelpers.MockPlayerRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	svc := NewCatchService(registry, monsterRepo, caughtRepo, playerRepo, testhelpers.NoopPublisher{})
	return registry, caughtRepo, playerRepo, svc
}

func expectPersistence(caughtRepo *testhelpers.MockCaughtMonsterRepository, playerRepo *testhelpers.MockPlayerRepository, guildID, userID int64, reward int64) {
	caughtRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.CaughtMonster")).Return(nil)
	playerRepo.On("GetOrCreatePlayer", mock.Anything, guildID, userID).
		Return(&entities.Player{GuildID: guildID, UserID: userID}, nil)
	playerRepo.On("AddCurrency", mock.Anything, guildID, userID, reward).Return(nil)
	playerRepo.On("IncrementCatches", mock.Anything, guildID, userID).Return(nil)
}

func TestTryCatch_NoActiveSpawn(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newCatchFixture(t)

	outcome, err := svc.TryCatch(context.Background(), 1, 100, "pidgey")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.True(t, outcome.NoSpawn)
}

func TestTryCatch_WrongGuessFails(t *testing.T) {
	t.Parallel()

	registry, _, _, svc := newCatchFixture(t)
	registry.Publish(1, testMonster(7, "Pidgey"), false, time.Now())

	outcome, err := svc.TryCatch(context.Background(), 1, 100, "pidge")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.False(t, outcome.NoSpawn, "spawn stays active after a wrong guess")

	_, active := registry.Current(1)
	assert.True(t, active)
}

func TestTryCatch_CorrectGuessSucceeds(t *testing.T) {
	t.Parallel()

	registry, caughtRepo, playerRepo, svc := newCatchFixture(t)
	registry.Publish(1, testMonster(7, "Pidgey"), false, time.Now())

	caughtRepo.On("CountSpecies", mock.Anything, int64(1), int64(100), int64(7)).Return(0, nil)
	expectPersistence(caughtRepo, playerRepo, 1, 100, 10)

	outcome, err := svc.TryCatch(context.Background(), 1, 100, "PIDGEY")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, int64(10), outcome.Reward)
	require.NotNil(t, outcome.Caught)
	assert.GreaterOrEqual(t, outcome.Caught.Level, 1)
	assert.LessOrEqual(t, outcome.Caught.Level, 30)

	_, active := registry.Current(1)
	assert.False(t, active, "successful catch clears the spawn")

	caughtRepo.AssertExpectations(t)
	playerRepo.AssertExpectations(t)
}

func TestTryCatch_LocalizedNameMatches(t *testing.T) {
	t.Parallel()

	registry, caughtRepo, playerRepo, svc := newCatchFixture(t)
	m := testMonster(7, "Pidgey")
	japanese := "ポッポ"
	m.NameJapanese = &japanese
	registry.Publish(1, m, false, time.Now())

	caughtRepo.On("CountSpecies", mock.Anything, int64(1), int64(100), int64(7)).Return(0, nil)
	expectPersistence(caughtRepo, playerRepo, 1, 100, 10)

	outcome, err := svc.TryCatch(context.Background(), 1, 100, "ポッポ")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
}

func TestTryCatch_DuplicateHalvesReward(t *testing.T) {
	t.Parallel()

	registry, caughtRepo, playerRepo, svc := newCatchFixture(t)
	registry.Publish(1, testMonster(7, "Pidgey"), false, time.Now())

	caughtRepo.On("CountSpecies", mock.Anything, int64(1), int64(100), int64(7)).Return(3, nil)
	expectPersistence(caughtRepo, playerRepo, 1, 100, 5)

	outcome, err := svc.TryCatch(context.Background(), 1, 100, "pidgey")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.True(t, outcome.Duplicate)
	assert.Equal(t, int64(5), outcome.Reward, "duplicate catch pays half")
}

func TestTryCatch_ConcurrentAttemptsOneWinner(t *testing.T) {
	t.Parallel()

	registry, caughtRepo, playerRepo, svc := newCatchFixture(t)
	registry.Publish(1, testMonster(7, "Pidgey"), false, time.Now())

	caughtRepo.On("CountSpecies", mock.Anything, int64(1), mock.AnythingOfType("int64"), int64(7)).Return(0, nil)
	caughtRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.CaughtMonster")).Return(nil)
	playerRepo.On("GetOrCreatePlayer", mock.Anything, int64(1), mock.AnythingOfType("int64")).
		Return(&entities.Player{GuildID: 1}, nil)
	playerRepo.On("AddCurrency", mock.Anything, int64(1), mock.AnythingOfType("int64"), int64(10)).Return(nil)
	playerRepo.On("IncrementCatches", mock.Anything, int64(1), mock.AnythingOfType("int64")).Return(nil)

	const attempts = 8
	var wg sync.WaitGroup
	outcomes := make(chan *CatchOutcome, attempts)

	for i := 0; i < attempts; i++ {
		userID := int64(100 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.TryCatch(context.Background(), 1, userID, "pidgey")
			require.NoError(t, err)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	winners := 0
	for outcome := range outcomes {
		if outcome.Success {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent catch may succeed")

	_, active := registry.Current(1)
	assert.False(t, active, "post-condition is no active spawn")
}
