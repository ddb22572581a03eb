package services

import (
	"context"
	"testing"

	"smokeybot/domain/entities"
	"smokeybot/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ownedMonster(id, guildID, userID int64) *entities.CaughtMonster {
	return &entities.CaughtMonster{ID: id, GuildID: guildID, UserID: userID, MonsterID: 7, Level: 5}
}

func TestCreateOffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		offerer   int64
		recipient int64
		setupMock func(*testhelpers.MockCaughtMonsterRepository, *testhelpers.MockTradeRepository)
		wantErr   error
	}{
		{
			name:      "successful offer",
			offerer:   100,
			recipient: 200,
			setupMock: func(caught *testhelpers.MockCaughtMonsterRepository, trades *testhelpers.MockTradeRepository) {
				caught.On("GetByID", mock.Anything, int64(55)).Return(ownedMonster(55, 1, 100), nil)
				trades.On("Create", mock.Anything, mock.MatchedBy(func(tr *entities.Trade) bool {
					return tr.GuildID == 1 && tr.OffererID == 100 && tr.RecipientID == 200 &&
						tr.CaughtMonsterID == 55 && tr.Status == entities.TradeStatusOpen &&
						tr.ID != uuid.Nil
				})).Return(nil)
			},
		},
		{
			name:      "cannot trade with yourself",
			offerer:   100,
			recipient: 100,
			setupMock: func(*testhelpers.MockCaughtMonsterRepository, *testhelpers.MockTradeRepository) {},
			wantErr:   nil, // checked via assert.Error below
		},
		{
			name:      "monster owned by someone else",
			offerer:   100,
			recipient: 200,
			setupMock: func(caught *testhelpers.MockCaughtMonsterRepository, trades *testhelpers.MockTradeRepository) {
				caught.On("GetByID", mock.Anything, int64(55)).Return(ownedMonster(55, 1, 999), nil)
			},
			wantErr: ErrNotYourMonster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
			tradeRepo := new(testhelpers.MockTradeRepository)
			tt.setupMock(caughtRepo, tradeRepo)

			svc := NewTradeService(tradeRepo, caughtRepo, testhelpers.NoopPublisher{})
			trade, err := svc.CreateOffer(context.Background(), 1, tt.offerer, tt.recipient, 55)

			if tt.name == "successful offer" {
				require.NoError(t, err)
				assert.True(t, trade.IsOpen())
				tradeRepo.AssertExpectations(t)
			} else if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAccept_TransfersOwnership(t *testing.T) {
	t.Parallel()

	caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
	tradeRepo := new(testhelpers.MockTradeRepository)
	publisher := new(testhelpers.MockEventPublisher)

	tradeID := uuid.New()
	trade := &entities.Trade{
		ID: tradeID, GuildID: 1, OffererID: 100, RecipientID: 200,
		CaughtMonsterID: 55, Status: entities.TradeStatusOpen,
	}

	tradeRepo.On("GetByID", mock.Anything, tradeID).Return(trade, nil)
	caughtRepo.On("UpdateOwner", mock.Anything, int64(55), int64(200)).Return(nil)
	tradeRepo.On("UpdateStatus", mock.Anything, tradeID, entities.TradeStatusAccepted).Return(nil)
	caughtRepo.On("GetByID", mock.Anything, int64(55)).Return(ownedMonster(55, 1, 200), nil)
	publisher.On("Publish", mock.AnythingOfType("events.TradeCompletedEvent")).Return(nil)

	svc := NewTradeService(tradeRepo, caughtRepo, publisher)
	accepted, err := svc.Accept(context.Background(), tradeID, 200)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStatusAccepted, accepted.Status)

	tradeRepo.AssertExpectations(t)
	caughtRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAccept_Guards(t *testing.T) {
	t.Parallel()

	tradeID := uuid.New()

	tests := []struct {
		name    string
		actor   int64
		trade   *entities.Trade
		wantErr error
	}{
		{
			name:    "missing trade",
			actor:   200,
			trade:   nil,
			wantErr: ErrTradeNotFound,
		},
		{
			name:  "closed trade",
			actor: 200,
			trade: &entities.Trade{
				ID: tradeID, GuildID: 1, OffererID: 100, RecipientID: 200,
				CaughtMonsterID: 55, Status: entities.TradeStatusCancelled,
			},
			wantErr: ErrTradeNotOpen,
		},
		{
			name:  "only the recipient may accept",
			actor: 100,
			trade: &entities.Trade{
				ID: tradeID, GuildID: 1, OffererID: 100, RecipientID: 200,
				CaughtMonsterID: 55, Status: entities.TradeStatusOpen,
			},
			wantErr: ErrNotYourTrade,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
			tradeRepo := new(testhelpers.MockTradeRepository)
			if tt.trade == nil {
				tradeRepo.On("GetByID", mock.Anything, tradeID).Return(nil, nil)
			} else {
				tradeRepo.On("GetByID", mock.Anything, tradeID).Return(tt.trade, nil)
			}

			svc := NewTradeService(tradeRepo, caughtRepo, testhelpers.NoopPublisher{})
			_, err := svc.Accept(context.Background(), tradeID, tt.actor)
			assert.ErrorIs(t, err, tt.wantErr)
			caughtRepo.AssertNotCalled(t, "UpdateOwner", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancel_EitherPartyMayCancel(t *testing.T) {
	t.Parallel()

	for _, actor := range []int64{100, 200} {
		tradeID := uuid.New()
		trade := &entities.Trade{
			ID: tradeID, GuildID: 1, OffererID: 100, RecipientID: 200,
			CaughtMonsterID: 55, Status: entities.TradeStatusOpen,
		}

		caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
		tradeRepo := new(testhelpers.MockTradeRepository)
		tradeRepo.On("GetByID", mock.Anything, tradeID).Return(trade, nil)
		tradeRepo.On("UpdateStatus", mock.Anything, tradeID, entities.TradeStatusCancelled).Return(nil)

		svc := NewTradeService(tradeRepo, caughtRepo, testhelpers.NoopPublisher{})
		require.NoError(t, svc.Cancel(context.Background(), tradeID, actor))
	}
}

func TestCancel_StrangerMayNot(t *testing.T) {
	t.Parallel()

	tradeID := uuid.New()
	trade := &entities.Trade{
		ID: tradeID, GuildID: 1, OffererID: 100, RecipientID: 200,
		CaughtMonsterID: 55, Status: entities.TradeStatusOpen,
	}

	caughtRepo := new(testhelpers.MockCaughtMonsterRepository)
	tradeRepo := new(testhelpers.MockTradeRepository)
	tradeRepo.On("GetByID", mock.Anything, tradeID).Return(trade, nil)

	svc := NewTradeService(tradeRepo, caughtRepo, testhelpers.NoopPublisher{})
	err := svc.Cancel(context.Background(), tradeID, 999)
	assert.ErrorIs(t, err, ErrNotYourTrade)
}
