package services

import (
	"context"
	"testing"

	"smokeybot/domain/entities"
	"smokeybot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newItemFixture() (*testhelpers.MockItemRepository, *testhelpers.MockPlayerRepository, *testhelpers.MockCaughtMonsterRepository, *testhelpers.MockMonsterRepository, *itemService) {
	itemRepo := new(testhelpers.MockItemRepository)
	playerRepo := new(testhelpers.MockPlayerRepository)
	caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
	monsterRepo := new(testhelpers.MockMonsterRepository)
	svc := NewItemService(itemRepo, playerRepo, caughtRepo, monsterRepo)
	return itemRepo, playerRepo, caughtRepo, monsterRepo, svc
}

func TestBuy_ChargesAndGrants(t *testing.T) {
	t.Parallel()

	itemRepo, playerRepo, _, _, svc := newItemFixture()

	stone := &entities.Item{ID: 3, Name: "fire-stone", Cost: 250}
	itemRepo.On("GetByName", mock.Anything, "fire-stone").Return(stone, nil)
	playerRepo.On("GetOrCreatePlayer", mock.Anything, int64(1), int64(100)).
		Return(&entities.Player{GuildID: 1, UserID: 100, Currency: 300}, nil)
	playerRepo.On("AddCurrency", mock.Anything, int64(1), int64(100), int64(-250)).Return(nil)
	itemRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(100), int64(3), 1).Return(nil)

	item, err := svc.Buy(context.Background(), 1, 100, "fire-stone")
	require.NoError(t, err)
	assert.Equal(t, stone, item)

	itemRepo.AssertExpectations(t)
	playerRepo.AssertExpectations(t)
}

func TestBuy_InsufficientFunds(t *testing.T) {
	t.Parallel()

	itemRepo, playerRepo, _, _, svc := newItemFixture()

	itemRepo.On("GetByName", mock.Anything, "fire-stone").
		Return(&entities.Item{ID: 3, Name: "fire-stone", Cost: 250}, nil)
	playerRepo.On("GetOrCreatePlayer", mock.Anything, int64(1), int64(100)).
		Return(&entities.Player{GuildID: 1, UserID: 100, Currency: 10}, nil)

	_, err := svc.Buy(context.Background(), 1, 100, "fire-stone")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	playerRepo.AssertNotCalled(t, "AddCurrency", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuy_UnknownItem(t *testing.T) {
	t.Parallel()

	itemRepo, _, _, _, svc := newItemFixture()
	itemRepo.On("GetByName", mock.Anything, "masterball").Return(nil, nil)

	_, err := svc.Buy(context.Background(), 1, 100, "masterball")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUse_EvolvesSpecies(t *testing.T) {
	t.Parallel()

	itemRepo, _, caughtRepo, monsterRepo, svc := newItemFixture()

	raichuID := int64(26)
	pikachu := testMonster(25, "Pikachu")
	pikachu.EvolvesTo = &raichuID
	raichu := testMonster(26, "Raichu")

	itemRepo.On("GetByName", mock.Anything, "thunder-stone").
		Return(&entities.Item{ID: 2, Name: "thunder-stone", Cost: 250}, nil)
	itemRepo.On("GetQuantity", mock.Anything, int64(1), int64(100), int64(2)).Return(1, nil)
	caughtRepo.On("GetByID", mock.Anything, int64(55)).
		Return(&entities.CaughtMonster{ID: 55, GuildID: 1, UserID: 100, MonsterID: 25}, nil)
	monsterRepo.On("GetByID", mock.Anything, int64(25)).Return(pikachu, nil)
	monsterRepo.On("GetByID", mock.Anything, int64(26)).Return(raichu, nil)
	caughtRepo.On("UpdateSpecies", mock.Anything, int64(55), int64(26)).Return(nil)
	itemRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(100), int64(2), -1).Return(nil)

	outcome, err := svc.Use(context.Background(), 1, 100, "thunder-stone", 55)
	require.NoError(t, err)
	assert.True(t, outcome.Evolved)
	assert.Equal(t, "Pikachu", outcome.From.NameEnglish)
	assert.Equal(t, "Raichu", outcome.Into.NameEnglish)

	caughtRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
}

func TestUse_SpeciesWithoutEvolutionKeepsItem(t *testing.T) {
	t.Parallel()

	itemRepo, _, caughtRepo, monsterRepo, svc := newItemFixture()

	snorlax := testMonster(143, "Snorlax") // no EvolvesTo

	itemRepo.On("GetByName", mock.Anything, "moon-stone").
		Return(&entities.Item{ID: 5, Name: "moon-stone", Cost: 400}, nil)
	itemRepo.On("GetQuantity", mock.Anything, int64(1), int64(100), int64(5)).Return(2, nil)
	caughtRepo.On("GetByID", mock.Anything, int64(55)).
		Return(&entities.CaughtMonster{ID: 55, GuildID: 1, UserID: 100, MonsterID: 143}, nil)
	monsterRepo.On("GetByID", mock.Anything, int64(143)).Return(snorlax, nil)

	outcome, err := svc.Use(context.Background(), 1, 100, "moon-stone", 55)
	require.NoError(t, err)
	assert.False(t, outcome.Evolved, "no evolution data is a normal branch")

	itemRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	caughtRepo.AssertNotCalled(t, "UpdateSpecies", mock.Anything, mock.Anything, mock.Anything)
}

func TestUse_RequiresOwnership(t *testing.T) {
	t.Parallel()

	itemRepo, _, caughtRepo, _, svc := newItemFixture()

	itemRepo.On("GetByName", mock.Anything, "thunder-stone").
		Return(&entities.Item{ID: 2, Name: "thunder-stone", Cost: 250}, nil)
	itemRepo.On("GetQuantity", mock.Anything, int64(1), int64(100), int64(2)).Return(1, nil)
	caughtRepo.On("GetByID", mock.Anything, int64(55)).
		Return(&entities.CaughtMonster{ID: 55, GuildID: 1, UserID: 999, MonsterID: 25}, nil)

	_, err := svc.Use(context.Background(), 1, 100, "thunder-stone", 55)
	assert.ErrorIs(t, err, ErrNotYourMonster)
}

func TestGive_MovesOneItem(t *testing.T) {
	t.Parallel()

	itemRepo, _, _, _, svc := newItemFixture()

	itemRepo.On("GetByName", mock.Anything, "fire-stone").
		Return(&entities.Item{ID: 3, Name: "fire-stone", Cost: 250}, nil)
	itemRepo.On("GetQuantity", mock.Anything, int64(1), int64(100), int64(3)).Return(1, nil)
	itemRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(100), int64(3), -1).Return(nil)
	itemRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(200), int64(3), 1).Return(nil)

	_, err := svc.Give(context.Background(), 1, 100, 200, "fire-stone")
	require.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

func TestGive_RequiresHolding(t *testing.T) {
	t.Parallel()

	itemRepo, _, _, _, svc := newItemFixture()

	itemRepo.On("GetByName", mock.Anything, "fire-stone").
		Return(&entities.Item{ID: 3, Name: "fire-stone", Cost: 250}, nil)
	itemRepo.On("GetQuantity", mock.Anything, int64(1), int64(100), int64(3)).Return(0, nil)

	_, err := svc.Give(context.Background(), 1, 100, 200, "fire-stone")
	assert.ErrorIs(t, err, ErrItemNotHeld)
}
