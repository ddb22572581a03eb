package testhelpers

import (
	"context"

	"smokeybot/domain/entities"
	"smokeybot/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockGuildSettingsRepository) ListEnabledGuilds(ctx context.Context) ([]*entities.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GuildSettings), args.Error(1)
}

// MockMonsterRepository is a mock implementation of MonsterRepository
type MockMonsterRepository struct {
	mock.Mock
}

func (m *MockMonsterRepository) GetByID(ctx context.Context, id int64) (*entities.Monster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Monster), args.Error(1)
}

func (m *MockMonsterRepository) ListSpawnCandidates(ctx context.Context) ([]*entities.Monster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Monster), args.Error(1)
}

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetOrCreatePlayer(ctx context.Context, guildID, userID int64) (*entities.Player, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

func (m *MockPlayerRepository) AddCurrency(ctx context.Context, guildID, userID, delta int64) error {
	args := m.Called(ctx, guildID, userID, delta)
	return args.Error(0)
}

func (m *MockPlayerRepository) IncrementCatches(ctx context.Context, guildID, userID int64) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

func (m *MockPlayerRepository) TopByCurrency(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Player), args.Error(1)
}

func (m *MockPlayerRepository) TopByCatches(ctx context.Context, guildID int64, limit int) ([]*entities.Player, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Player), args.Error(1)
}

// MockCaughtMonsterRepository is a mock implementation of CaughtMonsterRepository
type MockCaughtMonsterRepository struct {
	mock.Mock
}

func (m *MockCaughtMonsterRepository) Create(ctx context.Context, cm *entities.CaughtMonster) error {
	args := m.Called(ctx, cm)
	return args.Error(0)
}

func (m *MockCaughtMonsterRepository) GetByID(ctx context.Context, id int64) (*entities.CaughtMonster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CaughtMonster), args.Error(1)
}

func (m *MockCaughtMonsterRepository) GetLatest(ctx context.Context, guildID, userID int64) (*entities.CaughtMonster, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CaughtMonster), args.Error(1)
}

func (m *MockCaughtMonsterRepository) ListByOwner(ctx context.Context, guildID, userID int64, limit int) ([]*entities.CaughtMonster, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CaughtMonster), args.Error(1)
}

func (m *MockCaughtMonsterRepository) CountSpecies(ctx context.Context, guildID, userID, monsterID int64) (int, error) {
	args := m.Called(ctx, guildID, userID, monsterID)
	return args.Int(0), args.Error(1)
}

func (m *MockCaughtMonsterRepository) UpdateOwner(ctx context.Context, id, newUserID int64) error {
	args := m.Called(ctx, id, newUserID)
	return args.Error(0)
}

func (m *MockCaughtMonsterRepository) UpdateSpecies(ctx context.Context, id, monsterID int64) error {
	args := m.Called(ctx, id, monsterID)
	return args.Error(0)
}

// MockTradeRepository is a mock implementation of TradeRepository
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) Create(ctx context.Context, trade *entities.Trade) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trade), args.Error(1)
}

func (m *MockTradeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TradeStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTradeRepository) ListOpenByGuild(ctx context.Context, guildID int64) ([]*entities.Trade, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trade), args.Error(1)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByName(ctx context.Context, name string) (*entities.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Item), args.Error(1)
}

func (m *MockItemRepository) ListAll(ctx context.Context) ([]*entities.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Item), args.Error(1)
}

func (m *MockItemRepository) GetQuantity(ctx context.Context, guildID, userID, itemID int64) (int, error) {
	args := m.Called(ctx, guildID, userID, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockItemRepository) AdjustQuantity(ctx context.Context, guildID, userID, itemID int64, delta int) error {
	args := m.Called(ctx, guildID, userID, itemID, delta)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// NoopPublisher swallows events; convenient where tests don't assert on them
type NoopPublisher struct{}

func (NoopPublisher) Publish(events.Event) error { return nil }
